package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRendersSectionsThenCheckpoint(t *testing.T) {
	out, err := New().
		Line(LabelNet, "vendor reachable, status 200").
		Total("Total devices", 3, 1, 2).
		Build()
	require.NoError(t, err)
	assert.Contains(t, out, "[NET] vendor reachable, status 200")
	assert.Contains(t, out, checkpointMarker)
	assert.Contains(t, out, "Total devices: 3")
}

func TestBuildOmitsCheckpointWhenNoFactsRecorded(t *testing.T) {
	out, err := New().Line(LabelErr, "Unknown tool: does_not_exist").Build()
	require.NoError(t, err)
	assert.NotContains(t, out, checkpointMarker)
}

func TestTotalMismatchReturnsError(t *testing.T) {
	_, err := New().Total("Total devices", 5, 1, 2).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Total devices")
}

func TestListSectionRendersOneItemPerLine(t *testing.T) {
	out, err := New().
		List(LabelStats, "Devices", []string{"ap-1: up", "ap-2: up"}).
		Build()
	require.NoError(t, err)
	assert.Contains(t, out, "[STATS] Devices")
	assert.Contains(t, out, "ap-1: up")
	assert.Contains(t, out, "ap-2: up")
}

func TestBuildTruncatesLongestListSectionOverSizeBound(t *testing.T) {
	items := make([]string, 2000)
	for i := range items {
		items[i] = fmt.Sprintf("device-%04d: up, serial CN%08d, uptime 12h", i, i)
	}
	out, err := New().
		List(LabelStats, "Devices", items).
		Total("Total devices", int64(len(items)), int64(len(items))).
		Build()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), SizeBound)
	assert.Contains(t, out, "more")
	assert.Contains(t, out, string(LabelInfo)+" Truncated")
	assert.True(t, strings.Contains(out, checkpointMarker), "checkpoint must survive truncation")
}

func TestBuildKeepsShortReportsUntouched(t *testing.T) {
	out, err := New().
		Line(LabelOK, "all systems nominal").
		Fact("Checked at", "2026-07-31T00:00:00Z").
		Build()
	require.NoError(t, err)
	assert.NotContains(t, out, "Truncated")
	assert.Less(t, len(out), SizeBound)
}
