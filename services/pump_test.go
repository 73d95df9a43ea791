package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPumpLinesSplitsOnNewlineAndCR(t *testing.T) {
	// spotdl redraws progress lines with bare carriage returns.
	input := "Found 3 songs\nDownloaded: a\rDownloaded: b\r\nDownloaded: c"

	var lines []string
	err := pumpLines(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Found 3 songs",
		"Downloaded: a",
		"Downloaded: b",
		"Downloaded: c",
	}, lines)
}

func TestPumpLinesDropsInvalidUTF8(t *testing.T) {
	// A garbled line must not reach the line rules, where a stray
	// "Downloaded" prefix would count as a completion.
	input := "Found 3 songs\nDownloaded \xff\xfe garbage\nDownloaded: ok\n"

	var lines []string
	err := pumpLines(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Found 3 songs", "Downloaded: ok"}, lines)

	agg := NewAggregator()
	for _, line := range lines {
		agg.Apply(Classify(line))
	}
	current, total := agg.Counts()
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, total)
}

func TestPumpLinesEmptyStream(t *testing.T) {
	called := false
	err := pumpLines(strings.NewReader(""), func(string) { called = true })
	require.NoError(t, err)
	assert.False(t, called)
}

func TestPumpLinesLongLine(t *testing.T) {
	long := strings.Repeat("x", 256*1024)

	var lines []string
	err := pumpLines(strings.NewReader(long+"\n"), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 256*1024)
}
