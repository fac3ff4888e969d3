package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify(t *testing.T) {
	out, err := run(t, "classify", "85")
	require.NoError(t, err)
	assert.Equal(t, "85\tsafe\tSAFE\n", out)

	out, err = run(t, "--json", "classify", "150")
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, float64(100), payload["score"])
	assert.Equal(t, "safe", payload["tier"])

	_, err = run(t, "classify", "abc")
	assert.Error(t, err)
}

func TestLookupEmbeddedSeed(t *testing.T) {
	out, err := run(t, "lookup", "John", "Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe\t25\tHIGH RISK")
	assert.Contains(t, out, "  - guaranteed returns")

	out, err = run(t, "lookup", "--kind", "website", "unknown.example")
	require.NoError(t, err)
	assert.Equal(t, "Website analysis could not be completed\n", out)

	_, err = run(t, "lookup", "--kind", "phone", "x")
	assert.Error(t, err)
}

func TestLookupRejectsBlankQuery(t *testing.T) {
	_, err := run(t, "lookup", "   ")
	assert.ErrorIs(t, err, errEmptyQuery)
	_, err = run(t, "lookup", "--kind", "website", "")
	assert.ErrorIs(t, err, errEmptyQuery)
}

func TestSeedRoundTripsThroughLookup(t *testing.T) {
	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe")

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	out, err = run(t, "lookup", "--seed", path, "John Doe")
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe\t25\tHIGH RISK")
}

func TestLookupSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("advisors:\n  - id: Jane Roe\n    score: 55\n"), 0o600))
	out, err := run(t, "--json", "lookup", "--seed", path, "Jane Roe")
	require.NoError(t, err)
	var payload struct {
		Found bool   `json:"found"`
		Tier  string `json:"tier"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.True(t, payload.Found)
	assert.Equal(t, "medium", payload.Tier)
}

func TestScan(t *testing.T) {
	out, err := run(t, "--json", "scan", "Guaranteed returns, act now!", "--phrase", "act now")
	require.NoError(t, err)
	var payload struct {
		Flags    []string `json:"flags"`
		Severity string   `json:"severity"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, []string{"guaranteed returns", "act now"}, payload.Flags)
	assert.Equal(t, "high", payload.Severity)
}

func TestAward(t *testing.T) {
	out, err := run(t, "award", "check_advisor", "fraud_detected")
	require.NoError(t, err)
	assert.Contains(t, out, "points=110 level=1 next=200")
	assert.Contains(t, out, "Smart Starter badge unlocked!")

	_, err = run(t, "award", "teleport")
	assert.Error(t, err)
	_, err = run(t, "award", "--start", "-1", "referral")
	assert.Error(t, err)
}

func TestBadgesHindi(t *testing.T) {
	out, err := run(t, "--lang", "hi", "badges")
	require.NoError(t, err)
	assert.Contains(t, out, "धोखाधड़ी बस्टर")
}

func TestLocales(t *testing.T) {
	out, err := run(t, "locales")
	require.NoError(t, err)
	assert.Contains(t, out, "achievements\n")

	out, err = run(t, "locales", "toast")
	require.NoError(t, err)
	assert.Contains(t, out, "pointsTitle\t🎉 Points Earned!\n")

	_, err = run(t, "locales", "nowhere")
	assert.Error(t, err)
}
