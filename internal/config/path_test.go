package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ver_q3.csv", "ham_q3.csv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("distance,speed\n"), 0o600))
	}

	got, err := ExpandPath(filepath.Join(dir, "*_q3.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "ham_q3.csv"), filepath.Join(dir, "ver_q3.csv")}, got)

	got, err = ExpandPath(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, got)
}

func TestExpandPath_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "lec.jsonl"), []byte("{}\n"), 0o600))

	got, err := ExpandPath("~/lec.jsonl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, "lec.jsonl")}, got)
}

func TestExpandPath_Errors(t *testing.T) {
	dir := t.TempDir()
	for name, arg := range map[string]string{
		"empty":        "",
		"missing file": filepath.Join(dir, "nor.csv"),
		"no matches":   filepath.Join(dir, "*.missing"),
		"bad pattern":  filepath.Join(dir, "[.csv"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExpandPath(arg)
			assert.Error(t, err)
		})
	}
}
