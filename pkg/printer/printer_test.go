package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Types(t *testing.T) {
	p, err := New(Config{Type: "none"})
	require.NoError(t, err)
	assert.False(t, p.IsConnected())

	p, err = New(Config{Type: "memory"})
	require.NoError(t, err)
	assert.True(t, p.IsConnected())

	_, err = New(Config{Type: "usb"})
	assert.Error(t, err)

	_, err = New(Config{Type: "network"})
	assert.Error(t, err)

	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)
}

func TestMemoryPrinter_CopiesJobs(t *testing.T) {
	p := NewMemoryPrinter()
	data := []byte("receipt")
	require.NoError(t, p.Print(data))
	data[0] = 'X'

	jobs := p.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "receipt", string(jobs[0]))
}

func TestDocument_Layout(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "$1.50").
		ItemLine(3, "A very long lollipop name", "$1.50")

	out := doc.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@'}))

	lines := strings.Split(string(out[2:]), "\n")
	assert.Equal(t, "Total:         $1.50", lines[0])
	assert.Len(t, lines[1], 20)
	assert.True(t, strings.HasPrefix(lines[1], "3x A very"))
	assert.True(t, strings.HasSuffix(lines[1], "$1.50"))
}
