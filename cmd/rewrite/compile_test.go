package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jonathan/resume-rewrite/internal/typeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTypesetter writes an executable script standing in for the LaTeX engine
func fakeTypesetter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping compiler test")
	}
	path := filepath.Join(t.TempDir(), "fake-tectonic")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestRunCompile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "resume.pdf")
	setFlag(t, &compileInputFile, writeFile(t, "resume.json", sampleResumeJSON))
	setFlag(t, &compileOutputFile, out)
	setFlag(t, &compileBinary, fakeTypesetter(t, `grep -q 'Jane Doe' "$1" && printf '%%PDF-1.4 fake' > resume.pdf`))

	cmd, _, stderr := testCommand()
	require.NoError(t, runCompile(cmd, nil))

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
	assert.Contains(t, stderr.String(), "Successfully compiled PDF")
}

func TestRunCompile_CompilerFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "resume.pdf")
	setFlag(t, &compileInputFile, writeFile(t, "resume.json", sampleResumeJSON))
	setFlag(t, &compileOutputFile, out)
	setFlag(t, &compileBinary, fakeTypesetter(t, `echo "! Undefined control sequence." >&2; exit 1`))

	cmd, _, _ := testCommand()
	err := runCompile(cmd, nil)

	var compileErr *typeset.CompilationError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, 1, compileErr.ExitCode)
	assert.Contains(t, compileErr.Output, "Undefined control sequence")
	assert.NoFileExists(t, out)
}
