package quotasheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan(tab string) *SheetPlan {
	plan := NewSheetPlan(tab)
	band := NewBand(1, 1, 1)
	plan.Stack(band, BuildTable("Gender", genderRows()), BuildTable("Region", nil), BuildTable("Age", genderRows(), WithBanner("Age")))
	return plan
}

func TestBatchValueRanges(t *testing.T) {
	var b Batch
	b.Add(samplePlan("82. KR"))
	b.Add(NewSheetPlan("empty"))

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []string{"82. KR"}, b.Tabs())

	ranges, err := b.ValueRanges()
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "'82. KR'!A1:E4", ranges[0].Range)
	assert.Equal(t, "'82. KR'!A6:E10", ranges[1].Range)
	assert.Equal(t, "Age", ranges[1].Values[0][0])
}

func TestBatchRequests(t *testing.T) {
	var b Batch
	b.Add(samplePlan("82. KR"))
	b.Add(samplePlan("49. DE"))
	ids := map[string]int64{"82. KR": 7, "49. DE": 9}

	merges, err := b.MergeRequests(ids)
	require.NoError(t, err)
	require.Len(t, merges, 2)
	assert.Equal(t, int64(7), merges[0].SheetID)
	assert.Equal(t, Rect(6, 1, 6, 5), merges[0].Rect)
	assert.Equal(t, int64(9), merges[1].SheetID)

	styles, err := b.StyleRequests(ids, DefaultStyleSet())
	require.NoError(t, err)
	assert.Len(t, styles, 16)
	assert.Equal(t, ZoneHeader, styles[0].Zone)
	assert.True(t, styles[0].Style.Font.Bold)

	_, err = b.MergeRequests(map[string]int64{"82. KR": 7})
	assert.Error(t, err)
}

func TestBatchIsDeterministic(t *testing.T) {
	build := func() []ValueRange {
		var b Batch
		b.Add(samplePlan("82. KR"))
		ranges, err := b.ValueRanges()
		require.NoError(t, err)
		return ranges
	}
	assert.Equal(t, build(), build())
}
