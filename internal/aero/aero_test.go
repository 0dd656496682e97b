package aero

import (
	"strings"
	"testing"

	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMap = `Ma/LD;10;15;20
0.0;0.45;0.48;0.52
0.8;0.50;0.53;0.57
1.2;0.62;0.66;0.71
2.0;0.48;0.51;0.55
`

func TestLoadDragMap(t *testing.T) {
	tab, err := LoadDragMap(strings.NewReader(testMap), model.Fail)
	require.NoError(t, err)

	// grid nodes return the stored coefficients exactly
	cd, err := tab.Evaluate(model.Input{X: 1.2, Y: 15})
	require.NoError(t, err)
	assert.Equal(t, 0.66, cd)

	cd, err = tab.Evaluate(model.Input{X: 0, Y: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.45, cd)

	// interpolated value lies inside the cell's value range
	cd, err = tab.Evaluate(model.Input{X: 1.0, Y: 12})
	require.NoError(t, err)
	assert.Greater(t, cd, 0.50)
	assert.Less(t, cd, 0.66)
}

func TestLoadDragMap_Malformed(t *testing.T) {
	cases := map[string]string{
		"ragged row":       "h;10;20\n0.5;0.4;0.5\n1.0;0.6",
		"non-numeric axis": "h;a;b\n0.5;0.4;0.5\n1.0;0.6;0.7",
		"too few rows":     "h;10;20\n0.5;0.4;0.5",
		"non-numeric cd":   "h;10;20\n0.5;x;0.5\n1.0;0.6;0.7",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadDragMap(strings.NewReader(data), model.Fail)
			assert.Error(t, err)
		})
	}
}
