package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAudit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--areas", "../../areas", "--students", "../../example-students", "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCmd(t *testing.T) {
	cmd := checkCmd(&rootOptions{})
	assert.Equal(t, "check", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("student"))
	require.NotNil(t, cmd.Flags().Lookup("json"))

	out, err := runAudit(t, "check", "--student", "../../example-students/1001.json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "✓ 1001", lines[0])
	assert.Contains(t, out, "Statistics (concentration) 2014-15")

	out, err = runAudit(t, "check", "--student", "../../example-students/1002.json", "--json")
	require.NoError(t, err)
	var resp struct {
		Student string `json:"student"`
		Result  bool   `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "1002", resp.Student)
	assert.False(t, resp.Result)
}

func TestCheckCmd_FlagsDoNotCarryOver(t *testing.T) {
	_, err := runAudit(t, "check", "--student", "../../example-students/1001.json", "--json")
	require.NoError(t, err)

	// A fresh command starts from the defaults again, so the tree output is printed.
	out, err := runAudit(t, "check", "--student", "../../example-students/1001.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "✓ 1001"), out)

	_, err = runAudit(t, "check")
	assert.Error(t, err, "student is required on every run")
}

func TestCheckCmd_MissingFile(t *testing.T) {
	_, err := runAudit(t, "check", "--student", "does-not-exist.json")
	assert.Error(t, err)
}

func TestNormalizeCmd(t *testing.T) {
	out, err := runAudit(t, "normalize", "../../areas/majors/physics.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Physics")
	assert.Contains(t, out, "type: major")

	_, err = runAudit(t, "normalize")
	assert.Error(t, err)
}

func TestBenchmarkCmd(t *testing.T) {
	runs := benchmarkCmd(&rootOptions{}).Flags().Lookup("runs")
	require.NotNil(t, runs)
	assert.Equal(t, "50", runs.DefValue)

	out, err := runAudit(t, "benchmark", "--runs", "3", "--graph")
	require.NoError(t, err)
	assert.Contains(t, out, "STUDENT")
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "1003")
	assert.NotContains(t, out, "1004")

	_, err = runAudit(t, "benchmark", "--runs", "0")
	assert.Error(t, err)
}

func TestTokenCmd(t *testing.T) {
	out, err := runAudit(t, "token", "--subject", "1001", "--secret", "test")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))

	_, err = runAudit(t, "token", "--subject", "1001", "--secret", "test", "--role", "dean")
	assert.Error(t, err)
}
