package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fastf1CSV = `Date,SessionTime,Time,RPM,Speed,nGear,Throttle,Brake,DRS,Distance
2023-07-09 14:51:48.120,0 days 01:32:42.120000,0 days 00:00:00.120000,11000,250,7,99,False,1,100.0
2023-07-09 14:51:48.320,0 days 01:32:42.320000,0 days 00:00:00.320000,11100,260,7,100,True,1,150.0
2023-07-09 14:51:48.520,0 days 01:32:42.520000,0 days 00:00:00.520000,10900,255,7,15,False,1,200.0
`

func TestParseCSV_FastF1Export(t *testing.T) {
	samples, err := NewLoader(true).Parse(strings.NewReader(fastf1CSV))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, Sample{
		Distance: 100,
		Speed:    250,
		Throttle: 99,
		Brake:    false,
		Time:     120 * time.Millisecond,
	}, samples[0])
	assert.True(t, samples[1].Brake)
	assert.Equal(t, 520*time.Millisecond, samples[2].Time)
}

func TestParseCSV_NumericBrakeAndSeconds(t *testing.T) {
	input := "distance,speed,throttle,brake,time\n0,100,50,0,0.0\n10,110,0,0.8,0.35\n"

	samples, err := NewLoader(true).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.False(t, samples[0].Brake)
	assert.True(t, samples[1].Brake)
	assert.Equal(t, 350*time.Millisecond, samples[1].Time)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := NewLoader(true).Parse(strings.NewReader("distance,speed,brake,time\n0,1,false,0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"throttle"`)
}

func TestParseCSV_BadValue(t *testing.T) {
	input := "distance,speed,throttle,brake,time\n0,100,50,false,0\n10,fast,50,false,0.1\n"

	_, err := NewLoader(true).Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "invalid speed")
}

func TestParseJSONLines(t *testing.T) {
	input := `
{"distance": 100, "speed": 250, "throttle": 99, "brake": false, "time": 0.12}
{"Distance": 150, "Speed": 260, "Throttle": 100, "Brake": true, "Time": "0 days 00:00:00.320000"}

{"distance": 200, "speed": 255, "throttle": 15, "brake": 0, "time": "0.52", "nGear": 7}
`

	samples, err := NewLoader(true).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, []float64{100, 150, 200}, distances(Series{Samples: samples}))
	assert.True(t, samples[1].Brake)
	assert.False(t, samples[2].Brake)
	assert.Equal(t, 320*time.Millisecond, samples[1].Time)
}

func TestParseJSONLines_MissingField(t *testing.T) {
	_, err := NewLoader(true).Parse(strings.NewReader(`{"distance": 1, "speed": 2, "throttle": 3, "brake": true}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"time"`)
}

func TestParse_NonFiniteValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"csv NaN speed", "distance,speed,throttle,brake,time\n0,250,100,false,0\n100,NaN,100,False,0.4\n", "speed"},
		{"csv infinite distance", "distance,speed,throttle,brake,time\n+Inf,250,100,false,0\n", "distance"},
		{"csv NaN throttle", "distance,speed,throttle,brake,time\n0,250,nan,false,0\n", "throttle"},
		{"jsonl NaN string", `{"distance": 0, "speed": "NaN", "throttle": 100, "brake": false, "time": 0}`, "speed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, validate := range []bool{true, false} {
				_, err := NewLoader(validate).Parse(strings.NewReader(tt.input))
				require.ErrorIs(t, err, ErrNonFinite)
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestParse_NaNTime(t *testing.T) {
	_, err := NewLoader(true).Parse(strings.NewReader("distance,speed,throttle,brake,time\n0,250,100,false,NaN\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time")
}

func TestParse_Empty(t *testing.T) {
	_, err := NewLoader(true).Parse(strings.NewReader("  \n\n"))
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = NewLoader(true).Parse(strings.NewReader("distance,speed,throttle,brake,time\n"))
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestParse_ValidationToggle(t *testing.T) {
	input := "distance,speed,throttle,brake,time\n10,100,50,false,0\n5,100,50,false,0.1\n"

	_, err := NewLoader(true).Parse(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrNotMonotonic)

	samples, err := NewLoader(false).Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ver.csv")
	require.NoError(t, os.WriteFile(path, []byte(fastf1CSV), 0o600))

	s, err := NewLoader(true).LoadFile(path, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", s.Driver)
	assert.Equal(t, 3, s.Len())

	_, err = NewLoader(true).LoadFile(filepath.Join(t.TempDir(), "missing.csv"), "1")
	assert.Error(t, err)
}
