// Package vehicle models the physical composition of a single-stage rocket:
// structural components, propellant and pressurant tanks, the propulsion
// unit, and the immutable Rocket aggregate handed to the trajectory
// estimator. Masses and geometry are derived once at construction; a built
// Rocket is never mutated.
package vehicle

// Component is a structural part with mass and stack geometry. Parts inside
// the hull tube contribute to the hull length instead of the stack length,
// so the overall vehicle length counts each section exactly once.
type Component struct {
	Name   string
	Mass   float64 // kg
	Length float64 // m
	InHull bool
}

// StackLength is the part's contribution to the overall vehicle length.
func (c Component) StackLength() float64 {
	if c.InHull {
		return 0
	}
	return c.Length
}

// HullLength is the length of hull tube needed to cover the part.
func (c Component) HullLength() float64 {
	if c.InHull {
		return c.Length
	}
	return 0
}

// ThinWallThickness sizes a cylindrical pressure-vessel wall with Barlow's
// formula: t = p·d·S / (2·sigma), with p the internal pressure in Pa, d the
// vessel diameter in m, safety the design safety factor and allowableStress
// the material limit in Pa.
func ThinWallThickness(pressure, diameter, safety, allowableStress float64) float64 {
	return pressure * diameter * safety / (2 * allowableStress)
}
