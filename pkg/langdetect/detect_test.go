package langdetect_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gobqlint/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "select", content: "SELECT a FROM t", expected: "sql"},
		{name: "lower case select", content: "select a from t\n", expected: "sql"},
		{name: "with clause", content: "WITH x AS (SELECT 1)\nSELECT * FROM x\n", expected: "sql"},
		{name: "leading hash comment", content: "# daily report\nSELECT 1\n", expected: "sql"},
		{name: "leading hyphen comment", content: "-- report\n\nMERGE t USING s ON TRUE\n", expected: "sql"},
		{name: "leading block comment", content: "/*\n header\n*/\nCREATE TABLE t (a INT64)\n", expected: "sql"},
		{name: "script", content: "DECLARE x INT64 DEFAULT 1;\n", expected: "sql"},
		{name: "shebang bash", content: "#!/bin/bash\necho hello", expected: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", expected: "python"},
		{name: "go code", content: "package main\n\nfunc main() {}\n", expected: "go"},
		{name: "json object", content: `{"key": "value"}`, expected: "json"},
		{name: "empty", content: "", expected: "text"},
		{name: "whitespace only", content: "   \n\t\n", expected: "text"},
		{name: "binary", content: "\x00\x01\x02\x03SELECT", expected: "binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestIsSQL(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.IsSQL([]byte("SELECT 1\n")))
	assert.True(t, langdetect.IsSQL([]byte("  insert into t values (1)\n")))
	assert.False(t, langdetect.IsSQL([]byte("package main\n")))
	assert.False(t, langdetect.IsSQL([]byte("")))
}

func TestDetectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sqlPath := filepath.Join(dir, "query")
	require.NoError(t, os.WriteFile(sqlPath, []byte("SELECT 1\n"), 0o600))
	lang, err := langdetect.DetectFile(sqlPath)
	require.NoError(t, err)
	assert.Equal(t, "sql", lang)

	bigPath := filepath.Join(dir, "big")
	big := "SELECT\n" + strings.Repeat("  a,\n", langdetect.SniffLimit)
	require.NoError(t, os.WriteFile(bigPath, []byte(big), 0o600))
	lang, err = langdetect.DetectFile(bigPath)
	require.NoError(t, err)
	assert.Equal(t, "sql", lang, "only the head of the file is read")

	_, err = langdetect.DetectFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
