// Package fluid supplies propellant and pressurant densities by species,
// temperature and pressure. It stands in for an external fluid-property
// library: gases follow the ideal-gas law with a per-species gas constant,
// liquids use tabulated density over temperature (propellant tank pressures
// change liquid density by well under a percent, which is below the
// fidelity of the sizing models consuming it).
package fluid

import (
	"fmt"

	"github.com/L1xtopher/hytempo/internal/model"
)

// Properties is the fluid-property collaborator seen by the factory.
type Properties interface {
	// Density returns the mass density in kg/m^3 of the named species at
	// the given temperature in K and pressure in Pa.
	Density(species string, temperature, pressure float64) (float64, error)
}

// UnknownSpeciesError reports a species the library has no data for.
type UnknownSpeciesError struct {
	Species string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("fluid: unknown species %q", e.Species)
}

type speciesEntry interface {
	density(temperature, pressure float64) (float64, error)
}

type idealGas struct {
	gasConstant float64 // J/(kg K)
}

func (g idealGas) density(temperature, pressure float64) (float64, error) {
	if temperature <= 0 {
		return 0, fmt.Errorf("fluid: non-physical temperature %g K", temperature)
	}
	return pressure / (g.gasConstant * temperature), nil
}

type liquid struct {
	rho *model.Table1D // kg/m^3 over K
}

func (l liquid) density(temperature, _ float64) (float64, error) {
	return l.rho.Evaluate(model.Input{X: temperature})
}

// Library is a registry of species property data. It is populated once at
// startup and read-only afterwards.
type Library struct {
	species map[string]speciesEntry
}

// NewLibrary returns an empty species registry.
func NewLibrary() *Library {
	return &Library{species: make(map[string]speciesEntry)}
}

// RegisterGas adds an ideal-gas species with its specific gas constant in
// J/(kg K).
func (l *Library) RegisterGas(name string, gasConstant float64) {
	l.species[name] = idealGas{gasConstant: gasConstant}
}

// RegisterLiquid adds a liquid species with tabulated density over
// temperature.
func (l *Library) RegisterLiquid(name string, rho *model.Table1D) {
	l.species[name] = liquid{rho: rho}
}

// Density implements Properties.
func (l *Library) Density(species string, temperature, pressure float64) (float64, error) {
	entry, ok := l.species[species]
	if !ok {
		return 0, &UnknownSpeciesError{Species: species}
	}
	return entry.density(temperature, pressure)
}

// DefaultLibrary covers the species used by the shipped factory
// configurations: nitrogen and helium pressurants, nitrous oxide, ethanol
// and water. Liquid densities are saturation-line values.
func DefaultLibrary() *Library {
	l := NewLibrary()
	l.RegisterGas("nitrogen", 296.80)
	l.RegisterGas("helium", 2077.1)

	mustLiquid := func(name string, temps, rhos []float64) {
		tab, err := model.NewTable1D(temps, rhos, model.Clamp)
		if err != nil {
			panic(fmt.Sprintf("fluid: builtin %s table: %v", name, err))
		}
		l.RegisterLiquid(name, tab)
	}
	mustLiquid("nitrousoxide",
		[]float64{250, 260, 270, 280, 290, 300},
		[]float64{995.4, 962.0, 925.7, 885.0, 837.0, 743.8})
	mustLiquid("ethanol",
		[]float64{250, 270, 290, 310, 330, 350},
		[]float64{823.3, 806.2, 789.3, 772.0, 754.1, 735.5})
	mustLiquid("water",
		[]float64{275, 300, 325, 350, 375},
		[]float64{999.9, 996.5, 987.1, 973.7, 957.1})
	return l
}
