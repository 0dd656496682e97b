package vehicle

import "github.com/L1xtopher/hytempo/internal/model"

// TankRole distinguishes tanks whose contents leave the vehicle from tanks
// whose contents merely migrate inside it.
type TankRole int

const (
	// Propellant tanks feed the engine; their contents are expelled.
	Propellant TankRole = iota
	// Pressurant tanks displace propellant; their contents stay on board.
	Pressurant
)

// Tank is a pressure vessel holding a fluid. Shell mass and loaded fluid
// mass are sized by the factory; the tank itself only carries the result.
type Tank struct {
	Name        string
	Role        TankRole
	Fluid       string  // species name in the fluid library
	ShellMass   float64 // kg, structure and fittings
	Volume      float64 // m^3, including ullage
	Ullage      float64 // fraction of the volume left unfilled
	Pressure    float64 // Pa
	Temperature float64 // K
	FluidMass   float64 // kg loaded
	Length      float64 // m of stack the tank occupies
	InHull      bool

	// Feed is the flow model producing the tank's outlet state.
	Feed model.FluidModel
}

// DryMass is the structural mass of the empty tank.
func (t *Tank) DryMass() float64 {
	return t.ShellMass
}

// WetMass is the tank mass including its full fluid load.
func (t *Tank) WetMass() float64 {
	return t.ShellMass + t.FluidMass
}

// Outlet is the fluid state delivered at the tank flange.
func (t *Tank) Outlet() model.FluidState {
	if t.Feed == nil {
		return model.FluidState{Temperature: t.Temperature, Pressure: t.Pressure}
	}
	return t.Feed.Flow(model.FluidState{
		Temperature: t.Temperature,
		Pressure:    t.Pressure,
	})
}

// StackLength is the tank's contribution to the overall vehicle length.
func (t *Tank) StackLength() float64 {
	if t.InHull {
		return 0
	}
	return t.Length
}

// HullLength is the length of hull tube needed to cover the tank.
func (t *Tank) HullLength() float64 {
	if t.InHull {
		return t.Length
	}
	return 0
}

// FeedStation is a point in the feed system at which a fluid state can be
// queried. Tanks and wetted parts are stations.
type FeedStation interface {
	Outlet() model.FluidState
}

// WettedPart is a feed-system element with structure mass that transforms
// the fluid state of its upstream station: lines, regenerative cooling
// passages, injectors.
type WettedPart struct {
	Component
	Input FeedStation
	Model model.FluidModel
}

// Outlet applies the part's flow model to its upstream state.
func (w *WettedPart) Outlet() model.FluidState {
	return w.Model.Flow(w.Input.Outlet())
}
