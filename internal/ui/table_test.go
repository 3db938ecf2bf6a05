package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable(t *testing.T) {
	DisableStyling()

	var buf bytes.Buffer

	err := PrintTable([][]string{
		{"#", "RESULT"},
		{"1", "started"},
	}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "RESULT")
	assert.Contains(t, out, "started")
}
