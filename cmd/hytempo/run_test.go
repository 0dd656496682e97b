package main

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1xtopher/hytempo/internal/factory"
	"github.com/L1xtopher/hytempo/internal/fluid"
	"github.com/L1xtopher/hytempo/internal/logging"
	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/L1xtopher/hytempo/internal/vehicle"
	"github.com/L1xtopher/hytempo/internal/worker"
)

type stubISP struct {
	isp float64
}

var _ model.ISPSolver = (*stubISP)(nil)

func (s *stubISP) AmbientISP(model.ISPRequest) (float64, error) {
	return s.isp, nil
}

func closureTemplate() factory.Template {
	return factory.Template{
		Name: "lumina",
		Components: []vehicle.Component{
			{Name: "nosecone", Mass: 1.2, Length: 0.5},
			{Name: "avionics", Mass: 1.0, Length: 0.2, InHull: true},
		},
		Fuel:         "ethanol",
		Oxidizer:     "nitrousoxide",
		Pressurant:   "nitrogen",
		Fluids:       fluid.DefaultLibrary(),
		ISP:          &stubISP{isp: 220},
		Drag:         model.NewConstant(0.5),
		EngineMass:   4,
		EngineLength: 0.4,
	}
}

// setDesignPoint seeds the fixed design variables the closure modes start
// from and registers a viper reset for the next test.
func setDesignPoint(t *testing.T) {
	t.Helper()
	t.Cleanup(viper.Reset)

	viper.Set("design.diameter", 0.16)
	viper.Set("design.burnTime", 10.0)
	viper.Set("design.thrust", 3000.0)
	viper.Set("design.mixtureRatio", 4.0)
	viper.Set("design.chamberPressure", 3.0e6)
	viper.Set("design.expansionRatio", 5.0)
	viper.Set("design.pressurantPressure", 0.0)
}

func testPool() *worker.Pool {
	return worker.NewPool(worker.Dependencies{
		LogManager: logging.NewSlogManager(),
		Workers:    1,
	})
}

func TestBuildRocketsClosesBurnTime(t *testing.T) {
	setDesignPoint(t)
	viper.Set("design.close", "burnTime")
	viper.Set("design.closeTarget", 10.0)
	viper.Set("design.closeBounds.min", 0.1)
	viper.Set("design.closeBounds.max", 0.25)
	viper.Set("design.tankLength", 1.6)

	rockets, err := buildRockets(context.Background(), closureTemplate(), testPool())
	require.NoError(t, err)
	require.Len(t, rockets, 1)

	mdot := rockets[0].Engine().MassFlow(0)
	assert.InDelta(t, 10, rockets[0].PropellantMass()/mdot, 1e-5)
}

func TestBuildRocketsClosesEPSPressure(t *testing.T) {
	setDesignPoint(t)
	viper.Set("design.close", "epsPressure")
	viper.Set("design.closeTarget", 0.02)
	viper.Set("design.closeBounds.min", 5.5e6)
	viper.Set("design.closeBounds.max", 50e6)

	rockets, err := buildRockets(context.Background(), closureTemplate(), testPool())
	require.NoError(t, err)
	require.Len(t, rockets, 1)

	var pressurant *vehicle.Tank
	for _, tk := range rockets[0].Tanks() {
		if tk.Role == vehicle.Pressurant {
			pressurant = tk
		}
	}
	require.NotNil(t, pressurant)
	assert.InDelta(t, 0.02, pressurant.Volume, 1e-5)
}

func TestBuildRocketsSwarmWhenNoClosure(t *testing.T) {
	setDesignPoint(t)
	viper.Set("design.close", "")
	viper.Set("swarm.count", 0)
	viper.Set("swarm.seed", 1)
	viper.Set("template.name", "lumina")

	rockets, err := buildRockets(context.Background(), closureTemplate(), testPool())
	require.NoError(t, err)
	assert.Len(t, rockets, 1, "all-fixed design point collapses to one member")
}

func TestBuildRocketsUnknownClosureMode(t *testing.T) {
	setDesignPoint(t)
	viper.Set("design.close", "carrier-pigeon")

	_, err := buildRockets(context.Background(), closureTemplate(), testPool())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown closure mode")
}
