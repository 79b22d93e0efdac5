package quotasheet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genderRows() []Row {
	return []Row{
		{Answer: "1", Label: "Male", Quota: 100, Achieved: 60},
		{Answer: "2", Label: "Female", Quota: 100, Achieved: 40},
	}
}

func TestBuildTable(t *testing.T) {
	tbl := BuildTable("Gender", genderRows())

	require.False(t, tbl.IsEmpty())
	assert.Equal(t, [][]interface{}{
		{"Gender", "Quota", "Achie.(N)", "Achie.(%)", "Remaining"},
		{"1. Male", 100.0, 60.0, "60.00%", 40.0},
		{"2. Female", 100.0, 40.0, "40.00%", 60.0},
		{"Total", 200.0, 100.0, "50.00%", 100.0},
	}, tbl.Rows)
	assert.Equal(t, 4, tbl.Height())
	assert.Equal(t, 5, tbl.Width())
	assert.Equal(t, 1, tbl.LeadingRows())
	assert.Equal(t, AllZones, tbl.Zones)
}

func TestBuildTableEmpty(t *testing.T) {
	tbl := BuildTable("Region", nil, WithBanner("Total"))
	assert.True(t, tbl.IsEmpty())
	assert.Equal(t, 0, tbl.Height())
	assert.Equal(t, 0, tbl.Width())
}

func TestBuildTableOverQuota(t *testing.T) {
	tbl := BuildTable("Brand", []Row{{Answer: "7", Label: "Kia", Quota: 10, Achieved: 15}})

	assert.Equal(t, []interface{}{"7. Kia", 10.0, 15.0, "150.00%", -5.0}, tbl.Rows[1])
	assert.Equal(t, []interface{}{"Total", 10.0, 15.0, "150.00%", -5.0}, tbl.Rows[2])
}

func TestBuildTableZeroQuotaTotals(t *testing.T) {
	tbl := BuildTable("Age", []Row{{Answer: "1", Label: "20-29", Quota: 0, Achieved: 3}})
	assert.Equal(t, "0.00%", tbl.Rows[2][3])
}

func TestBuildTableNonFiniteQuota(t *testing.T) {
	var tbl *Table
	require.NotPanics(t, func() {
		tbl = BuildTable("Gender", []Row{
			{Answer: "1", Label: "Male", Quota: math.NaN(), Achieved: 1},
			{Answer: "2", Label: "Female", Quota: 10, Achieved: 4},
		})
	})
	assert.Equal(t, "0.00%", tbl.Rows[1][3])
	assert.Equal(t, []interface{}{"Total", 10.0, 5.0, "50.00%", 5.0}, tbl.Rows[3])
}

func TestBuildTableOptions(t *testing.T) {
	t.Run("banner", func(t *testing.T) {
		tbl := BuildTable("Main Segment", genderRows(), WithBanner("Total"))

		assert.Equal(t, []interface{}{"Total", "", "", "", ""}, tbl.Rows[0])
		assert.Equal(t, "Main Segment", tbl.Rows[1][0])
		assert.Equal(t, 5, tbl.Height())
		assert.Equal(t, 2, tbl.LeadingRows())
	})

	t.Run("without label column", func(t *testing.T) {
		tbl := BuildTable("Owner", genderRows(), WithoutLabelColumn(), WithBanner("Owner"))

		assert.Equal(t, 4, tbl.Width())
		assert.False(t, tbl.LabelColumn)
		assert.Equal(t, []interface{}{"Owner", "", "", ""}, tbl.Rows[0])
		assert.Equal(t, []interface{}{"Quota", "Achie.(N)", "Achie.(%)", "Remaining"}, tbl.Rows[1])
		assert.Equal(t, []interface{}{200.0, 100.0, "50.00%", 100.0}, tbl.Rows[4])
		assert.Zero(t, tbl.Zones&ZoneFirstColumn)
		assert.Zero(t, tbl.Zones&ZoneBorder)
		assert.NotZero(t, tbl.Zones&ZoneHeader)
	})

	t.Run("without zones", func(t *testing.T) {
		tbl := BuildTable("Gender", genderRows(), WithoutZones(ZoneFooter))
		assert.Equal(t, ZoneHeader|ZoneFirstColumn|ZoneBorder, tbl.Zones)
	})
}

func TestBuildCrossTab(t *testing.T) {
	total := []Row{
		{Answer: "1", Label: "Hyundai", Quota: 50, Achieved: 20},
		{Answer: "2", Label: "Kia", Quota: 30, Achieved: 30},
	}
	owner := []Row{
		{Answer: "2", Label: "Kia", Quota: 10, Achieved: 5},
		{Answer: "3", Label: "Genesis", Quota: 4, Achieved: 1},
	}

	tbl := BuildCrossTab("Main - Brand", []Series{
		{Label: "Total", Rows: total},
		{Label: "Owner", Rows: owner},
	})

	require.Equal(t, 6, tbl.Height())
	assert.Equal(t, 9, tbl.Width())
	assert.Equal(t, 2, tbl.HeaderRows)
	assert.Equal(t, []Group{{"Total", 4}, {"Owner", 4}}, tbl.Groups)
	assert.Equal(t, []interface{}{"Main - Brand", "Total", "Total", "Total", "Total", "Owner", "Owner", "Owner", "Owner"}, tbl.Rows[0])
	assert.Equal(t, []interface{}{"Main - Brand", "Quota", "Achie.(N)", "Achie.(%)", "Remaining", "Quota", "Achie.(N)", "Achie.(%)", "Remaining"}, tbl.Rows[1])
	assert.Equal(t, []interface{}{"1. Hyundai", 50.0, 20.0, "40.00%", 30.0, 0.0, 0.0, "0.00%", 0.0}, tbl.Rows[2])
	assert.Equal(t, []interface{}{"2. Kia", 30.0, 30.0, "100.00%", 0.0, 10.0, 5.0, "50.00%", 5.0}, tbl.Rows[3])
	assert.Equal(t, []interface{}{"3. Genesis", 0.0, 0.0, "0.00%", 0.0, 4.0, 1.0, "25.00%", 3.0}, tbl.Rows[4])
	assert.Equal(t, []interface{}{"Total", 80.0, 50.0, "62.50%", 30.0, 14.0, 6.0, "42.86%", 8.0}, tbl.Rows[5])
}

func TestBuildCrossTabEmpty(t *testing.T) {
	tbl := BuildCrossTab("Main - Engine", []Series{{Label: "Total"}, {Label: "Owner"}})
	assert.True(t, tbl.IsEmpty())
}

func TestBuildOwnerBrandTable(t *testing.T) {
	segments := []Row{{Answer: "1", Label: "SUV"}, {Answer: "2", Label: "Sedan"}}
	quotas := []Row{
		{Answer: "10", Label: "Hyundai", Quota: 40, Achieved: 10},
		{Answer: "20", Label: "Kia", Quota: 20, Achieved: 20},
	}
	details := []BrandCount{
		{Code: "10", Label: "Hyundai", Count: 6},
		{Code: "20", Label: "Kia", Count: 3},
		{Code: "10", Label: "Hyundai", Count: 4},
		{Code: "20", Label: "Kia", Count: 7},
		{Code: "20", Label: "Kia", Count: 99},
	}

	tbl, err := BuildOwnerBrandTable("Owner Brand", details, quotas, segments)
	require.NoError(t, err)

	assert.Equal(t, [][]interface{}{
		{"Owner Brand", "Quota", "SUV", "Sedan", "Total", "Total(%)"},
		{"10. Hyundai", 40.0, 6.0, 4.0, 10.0, "25.00%"},
		{"20. Kia", 20.0, 3.0, 7.0, 20.0, "100.00%"},
		{"Total", 60.0, 9.0, 11.0, 30.0, "50.00%"},
	}, tbl.Rows)
}

func TestBuildOwnerBrandTablePadsShortRows(t *testing.T) {
	segments := []Row{{Label: "SUV"}, {Label: "Sedan"}, {Label: "EV"}}
	quotas := []Row{{Answer: "10", Label: "Hyundai", Quota: 5, Achieved: 2}}

	tbl, err := BuildOwnerBrandTable("Owner Brand", []BrandCount{{Code: "10", Label: "Hyundai", Count: 2}}, quotas, segments)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"10. Hyundai", 5.0, 2.0, 0.0, 0.0, 2.0, "40.00%"}, tbl.Rows[1])
}

func TestBuildOwnerBrandTableMissingLookup(t *testing.T) {
	details := []BrandCount{{Code: "99", Label: "Unknown", Count: 1}}

	tbl, err := BuildOwnerBrandTable("Owner Brand", details, nil, []Row{{Label: "SUV"}})
	require.Error(t, err)
	assert.Nil(t, tbl)

	var lookupErr *MissingLookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "99", lookupErr.Key)
	assert.Equal(t, "Owner Brand", lookupErr.Table)
}

func TestBuildOwnerBrandTableEmpty(t *testing.T) {
	tbl, err := BuildOwnerBrandTable("Owner Brand", nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, tbl.IsEmpty())
}
