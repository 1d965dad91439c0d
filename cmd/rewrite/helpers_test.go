package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const sampleResumeJSON = `{
  "personalInfo": {"name": "Jane Doe", "email": "jane@example.com", "phone": "555-0100"},
  "skills": {"languages": "Go, SQL", "tools": "Docker & Kubernetes"},
  "experience": [{
    "title": "Backend Engineer", "company": "Acme", "date": "2021 -- Present", "location": "Remote",
    "bulletPoints": [{"original": "Built APIs", "improved": "Built 4 APIs serving 2M requests/day", "accepted": true}]
  }]
}`

// writeFile writes content into the test's temp dir and returns its path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testCommand returns a command whose output is captured
func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

// setFlag assigns a flag variable for the duration of the test
func setFlag[T any](t *testing.T, dst *T, value T) {
	t.Helper()
	prev := *dst
	*dst = value
	t.Cleanup(func() { *dst = prev })
}
