package cea

import (
	"errors"
	"strings"
	"testing"

	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBiprop(t *testing.T, policy model.Policy) *BipropTable {
	t.Helper()
	pcs := []float64{2e6, 4e6, 8e6}
	ofs := []float64{3, 5, 7}
	cstar := [][]float64{
		{1480, 1540, 1500},
		{1500, 1560, 1520},
		{1510, 1575, 1530},
	}
	gamma := [][]float64{
		{1.22, 1.20, 1.19},
		{1.22, 1.20, 1.19},
		{1.21, 1.20, 1.19},
	}
	cstarTab, err := model.NewTable2D(pcs, ofs, cstar, policy)
	require.NoError(t, err)
	gammaTab, err := model.NewTable2D(pcs, ofs, gamma, policy)
	require.NoError(t, err)
	return NewBipropTable("N2O/Ethanol", cstarTab, gammaTab)
}

func TestBipropTable_PlausibleISP(t *testing.T) {
	tab := newTestBiprop(t, model.Fail)
	isp, err := tab.AmbientISP(model.ISPRequest{
		ChamberPressure: 4e6,
		MixtureRatio:    5,
		ExpansionRatio:  6,
		AmbientPressure: 101325,
	})
	require.NoError(t, err)
	assert.Greater(t, isp, 150.0)
	assert.Less(t, isp, 350.0)
}

func TestBipropTable_VacuumBeatsSeaLevel(t *testing.T) {
	tab := newTestBiprop(t, model.Fail)
	req := model.ISPRequest{
		ChamberPressure: 4e6,
		MixtureRatio:    5,
		ExpansionRatio:  6,
	}

	req.AmbientPressure = 101325
	seaLevel, err := tab.AmbientISP(req)
	require.NoError(t, err)

	req.AmbientPressure = 0
	vacuum, err := tab.AmbientISP(req)
	require.NoError(t, err)

	assert.Greater(t, vacuum, seaLevel)
}

func TestBipropTable_OutOfRange(t *testing.T) {
	tab := newTestBiprop(t, model.Fail)
	_, err := tab.AmbientISP(model.ISPRequest{
		ChamberPressure: 20e6, // above the tabulated grid
		MixtureRatio:    5,
		ExpansionRatio:  6,
	})
	var rerr *RangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "N2O/Ethanol", rerr.Propellants)

	var derr *model.DomainError
	assert.True(t, errors.As(err, &derr))
}

func TestSolidTable(t *testing.T) {
	pcs := []float64{1e6, 3e6, 6e6}
	cstarTab, err := model.NewTable1D(pcs, []float64{1380, 1420, 1440}, model.Fail)
	require.NoError(t, err)
	gammaTab, err := model.NewTable1D(pcs, []float64{1.25, 1.24, 1.23}, model.Fail)
	require.NoError(t, err)
	tab := NewSolidTable("APCP", cstarTab, gammaTab)

	isp, err := tab.AmbientISP(model.ISPRequest{
		ChamberPressure: 3e6,
		ExpansionRatio:  8,
		AmbientPressure: 101325,
	})
	require.NoError(t, err)
	assert.Greater(t, isp, 120.0)
	assert.Less(t, isp, 320.0)
}

func TestExitMach_GrowsWithExpansionRatio(t *testing.T) {
	m4, err := exitMach(1.2, 4)
	require.NoError(t, err)
	m16, err := exitMach(1.2, 16)
	require.NoError(t, err)
	assert.Greater(t, m4, 1.0)
	assert.Greater(t, m16, m4)
}

func TestLoadBiprop(t *testing.T) {
	data := `pc;of;cstar;gamma
2e6;3;1480;1.22
2e6;5;1540;1.20
4e6;3;1500;1.22
4e6;5;1560;1.20
`
	tab, err := LoadBiprop(strings.NewReader(data), "N2O/Ethanol", model.Fail)
	require.NoError(t, err)

	isp, err := tab.AmbientISP(model.ISPRequest{
		ChamberPressure: 3e6,
		MixtureRatio:    4,
		ExpansionRatio:  6,
		AmbientPressure: 101325,
	})
	require.NoError(t, err)
	assert.Greater(t, isp, 0.0)
}

func TestLoadBiprop_NonRectangular(t *testing.T) {
	data := `2e6;3;1480;1.22
2e6;5;1540;1.20
4e6;3;1500;1.22
`
	_, err := LoadBiprop(strings.NewReader(data), "N2O/Ethanol", model.Fail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not rectangular")
}

func TestLoadSolid(t *testing.T) {
	data := `pc;cstar;gamma
6e6;1440;1.23
1e6;1380;1.25
3e6;1420;1.24
`
	tab, err := LoadSolid(strings.NewReader(data), "APCP", model.Fail)
	require.NoError(t, err)

	isp, err := tab.AmbientISP(model.ISPRequest{
		ChamberPressure: 2e6,
		ExpansionRatio:  8,
		AmbientPressure: 101325,
	})
	require.NoError(t, err)
	assert.Greater(t, isp, 0.0)
}
