package model

import "fmt"

// DomainError reports a model input outside the tabulated or otherwise valid
// range of the model.
type DomainError struct {
	Axis  string // "x" or "y"
	Value float64
	Valid Range
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("model: %s input %g outside valid range [%g, %g]",
		e.Axis, e.Value, e.Valid.Min, e.Valid.Max)
}

// EvaluationError reports a failure inside an external collaborator backing
// a model, e.g. the combustion-equilibrium solver rejecting an operating
// point.
type EvaluationError struct {
	Op  string
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("model: %s: %v", e.Op, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
