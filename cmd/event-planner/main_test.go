package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExports(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, listExports(&out, dir))
	assert.Equal(t, "No saved plans in "+dir+"\n", out.String())

	older := filepath.Join(dir, "picnic_20261017-090000.md")
	newer := filepath.Join(dir, "pool-party_20261018-090000.md")
	require.NoError(t, os.WriteFile(older, []byte("# Event Details\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("# Event Details\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	out.Reset()
	require.NoError(t, listExports(&out, dir))
	assert.Equal(t, []string{newer, older}, strings.Fields(out.String()))
}
