package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bimmerbailey/f1brief/internal/compare"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGapTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := newPairTestCmd(out, "gap")
	cmd.Flags().Int("window", compare.DefaultGapWindow, "rolling mean window")
	cmd.Flags().Float64("step", 0, "minimum distance between points")
	return cmd
}

func TestGapTable(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newGapTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "driver-a", "1", "driver-b", "44", "window", "1")

	if err := runGap(cmd, nil); err != nil {
		t.Fatalf("runGap() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"DISTANCE (m)", "+0.010", "+0.030", "VER"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q, got:\n%s", want, output)
		}
	}
}

func TestGapJSONWithRangeAndStep(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newGapTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "window", "1", "range", "120:200", "step", "60")

	require.NoError(t, runGap(cmd, nil))

	var doc struct {
		Points []compare.GapPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	require.NotEmpty(t, doc.Points)
	for _, p := range doc.Points {
		assert.GreaterOrEqual(t, p.Distance, 120.0)
		assert.LessOrEqual(t, p.Distance, 200.0)
	}
	assert.Equal(t, 200.0, doc.Points[len(doc.Points)-1].Distance)
}

func TestGapWindowFromConfig(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")
	viper.Set("gap_window", 1)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newGapTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b)

	require.NoError(t, runGap(cmd, nil))

	var doc struct {
		Points []compare.GapPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Points, 3)
	assert.InDelta(t, 0.03, doc.Points[2].Gap, 1e-9)
}

func TestGapInvalidFlags(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	cmd := newGapTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "window", "0")
	assert.Error(t, runGap(cmd, nil))

	cmd = newGapTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "step", "-5")
	assert.Error(t, runGap(cmd, nil))
}
