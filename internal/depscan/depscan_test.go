package depscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGNUDepfileSingleLine(t *testing.T) {
	got := parseGNUDepfile("a.o: a.c a.h b.h\n")
	assert.Equal(t, []string{"a.c", "a.h", "b.h"}, got)
}

func TestParseGNUDepfileContinuations(t *testing.T) {
	got := parseGNUDepfile("a.o: a.c \\\n  a.h \\\n  b.h\n")
	assert.Equal(t, []string{"a.c", "a.h", "b.h"}, got)
}

func TestParseGNUDepfileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.o.d")
	require.NoError(t, os.WriteFile(path, []byte("a.o: a.c a.h\n"), 0o644))

	inputs, err := ParseGNUDepfile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", "a.h"}, inputs)
}

func TestParseGNUDepfileMissingFile(t *testing.T) {
	_, err := ParseGNUDepfile("/nowhere/a.o.d")
	require.Error(t, err)
}

func TestScanMSVCOutputStripsIncludeLines(t *testing.T) {
	raw := "Note: including file: C:\\inc\\a.h\r\n" +
		"a.cpp\r\n" +
		"Note: including file:  C:\\inc\\b.h\r\n" +
		"warning C4996: something\r\n"

	result := ScanMSVCOutput(raw, "Note: including file:", "a.cpp")

	assert.Contains(t, result.Inputs, "C:\\inc\\a.h")
	assert.Contains(t, result.Inputs, "C:\\inc\\b.h")
	assert.Contains(t, result.Inputs, "a.cpp")
	assert.Contains(t, result.CleanedOutput, "warning C4996")
	assert.NotContains(t, result.CleanedOutput, "including file")
}

func TestScanMSVCOutputAppendsSourceEvenWhenNoIncludes(t *testing.T) {
	result := ScanMSVCOutput("", "Note: including file:", "a.cpp")
	assert.Equal(t, []string{"a.cpp"}, result.Inputs)
}

func TestRequireGNUDepfileWrapsCause(t *testing.T) {
	assert.Nil(t, RequireGNUDepfile("a.o.d", nil))
	err := RequireGNUDepfile("a.o.d", os.ErrNotExist)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile failed")
}
