package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bimmerbailey/f1brief/internal/compare"
	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompareTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := newPairTestCmd(out, "compare")
	cmd.Flags().StringP("turn", "t", "", "label for the range")
	cmd.Flags().Bool("ai", false, "write commentary")
	cmd.Flags().BoolP("watch", "w", false, "re-run on change")
	return cmd
}

func TestCompareText(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "driver-a", "1", "driver-b", "44", "range", "100:200", "turn", "15")

	if err := runCompare(cmd, nil); err != nil {
		t.Fatalf("runCompare() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"Turn 15: Max Verstappen vs Lewis Hamilton, 100-200 m",
		"At turn 15: Max Verstappen brakes earlier than Lewis Hamilton.",
		"Max Verstappen arrives faster than Lewis Hamilton.",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q, got:\n%s", want, output)
		}
	}
}

func TestCompareTable(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "table")
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "start", "100", "end", "200")

	if err := runCompare(cmd, nil); err != nil {
		t.Fatalf("runCompare() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"METRIC", "Top speed (km/h)", "260.00", "258.00", "0.77", "ver brakes earlier than ham."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q, got:\n%s", want, output)
		}
	}
}

func TestCompareJSON(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "driver-a", "1", "driver-b", "44")

	require.NoError(t, runCompare(cmd, nil))

	var doc struct {
		RunID   string `json:"run_id"`
		DriverA struct {
			Name string `json:"name"`
		} `json:"driver_a"`
		Record *compare.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())

	assert.Len(t, doc.RunID, 36, "run id should be a UUID")
	assert.Equal(t, "Max Verstappen", doc.DriverA.Name)
	require.NotNil(t, doc.Record)
	assert.Equal(t, 100.0, doc.Record.Range.Start, "whole-lap comparison spans both laps")
	assert.Equal(t, 200.0, doc.Record.Range.End)

	m, ok := doc.Record.Metric(compare.MetricBrakeApplication)
	require.True(t, ok)
	assert.Equal(t, 150.0, m.A)
	assert.Equal(t, 200.0, m.B)
}

func TestCompareEmptyRange(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	cmd := newCompareTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "range", "1000:1001")

	err := runCompare(cmd, nil)
	if !errors.Is(err, compare.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
}

func TestCompareRejectsNaNTelemetry(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	a, _ := writeLaps(t, dir)
	b := writeTempFile(t, dir, "nor.csv", []string{
		"distance,speed,throttle,brake,time",
		"100,NaN,100,False,0",
		"150,258,100,false,0.71",
		"200,252,0,true,1.43",
	})

	cmd := newCompareTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "range", "100:200")

	err := runCompare(cmd, nil)
	if !errors.Is(err, telemetry.ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
}

func TestCompareNoBraking(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	cmd := newCompareTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "range", "100:120")

	err := runCompare(cmd, nil)
	assert.ErrorIs(t, err, compare.ErrFeatureNotFound)
}

func TestCompareAIText(t *testing.T) {
	resetConfig(t)
	server := newFakeOllama(t)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "driver-a", "1", "driver-b", "44", "range", "100:200", "ai", "true")

	require.NoError(t, runCompare(cmd, nil))

	output := out.String()
	assert.Contains(t, output, "Max Verstappen brakes earlier")
	assert.Contains(t, output, fakeCommentary)

	reqs := server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "llama3.2", reqs[0].Model)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "system", reqs[0].Messages[0].Role)
	assert.Contains(t, reqs[0].Messages[1].Content, "Max Verstappen brakes earlier than Lewis Hamilton.")
}

func TestCompareAIJSON(t *testing.T) {
	resetConfig(t)
	viper.Set("format", "json")
	server := newFakeOllama(t)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "range", "100:200", "ai", "true")

	require.NoError(t, runCompare(cmd, nil))

	var doc struct {
		Summary    string `json:"summary"`
		Structured struct {
			Headline     string `json:"headline"`
			FasterDriver string `json:"faster_driver"`
		} `json:"structured"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	assert.Equal(t, fakeCommentary, doc.Summary)
	assert.Equal(t, "Verstappen brakes early", doc.Structured.Headline)

	reqs := server.Requests()
	require.Len(t, reqs, 2, "structured briefing takes two passes")
	assert.Len(t, reqs[1].Messages, 4)
	assert.Equal(t, "assistant", reqs[1].Messages[2].Role)
	assert.Equal(t, fakeCommentary, reqs[1].Messages[2].Content)
}

func TestCompareAIUnreachable(t *testing.T) {
	resetConfig(t)
	viper.Set("llm.ollama.host", "http://127.0.0.1:1")
	a, b := writeLaps(t, t.TempDir())

	cmd := newCompareTestCmd(&bytes.Buffer{})
	setFlags(t, cmd, "a", a, "b", b, "range", "100:200", "ai", "true")

	err := runCompare(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot connect to Ollama")
}

func TestCompareWatch(t *testing.T) {
	resetConfig(t)
	a, b := writeLaps(t, t.TempDir())

	var out bytes.Buffer
	cmd := newCompareTestCmd(&out)
	setFlags(t, cmd, "a", a, "b", b, "range", "100:200", "watch", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd.SetContext(ctx)

	go func() {
		time.Sleep(300 * time.Millisecond)
		content, _ := os.ReadFile(b)
		_ = os.WriteFile(b, content, 0o600)
	}()

	require.NoError(t, runCompare(cmd, nil))

	output := out.String()
	assert.Equal(t, 2, strings.Count(output, "ver brakes earlier than ham."), output)
	assert.Contains(t, output, "ham.csv changed")
}
