package service

import (
	"github.com/samber/lo"

	"github.com/locvowork/quota_tracker/internal/domain"
	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

const (
	qidGender = "Q3"
	qidAge    = "Q6"
	qidRegion = "Q7"

	qid2Brand      = "Q_Brand"
	qid2Segment    = "Q_Seg_Quota"
	qid2Engine     = "Q_Engine"
	qid2SegBooster = "Q_Seg_Booster"

	seriesOwner        = "1"
	seriesIntender     = "2"
	seriesOwnerBooster = "6"
	orderEVBooster     = "6"
)

func byQID(rows []domain.QuotaRow, qid string) []domain.QuotaRow {
	return lo.Filter(rows, func(r domain.QuotaRow, _ int) bool { return r.QID == qid })
}

func byQID2(rows []domain.QuotaRow, qid2 string) []domain.QuotaRow {
	return lo.Filter(rows, func(r domain.QuotaRow, _ int) bool { return r.QID2 == qid2 })
}

func bySeries(rows []domain.QuotaRow, series string) []domain.QuotaRow {
	return lo.Filter(rows, func(r domain.QuotaRow, _ int) bool { return r.Series == series })
}

func GenderRows(rows []domain.QuotaRow) []domain.QuotaRow  { return byQID(rows, qidGender) }
func AgeRows(rows []domain.QuotaRow) []domain.QuotaRow     { return byQID(rows, qidAge) }
func RegionRows(rows []domain.QuotaRow) []domain.QuotaRow  { return byQID(rows, qidRegion) }
func BrandRows(rows []domain.QuotaRow) []domain.QuotaRow   { return byQID2(rows, qid2Brand) }
func SegmentRows(rows []domain.QuotaRow) []domain.QuotaRow { return byQID2(rows, qid2Segment) }
func EngineRows(rows []domain.QuotaRow) []domain.QuotaRow  { return byQID2(rows, qid2Engine) }

func OwnerRows(rows []domain.QuotaRow) []domain.QuotaRow    { return bySeries(rows, seriesOwner) }
func IntenderRows(rows []domain.QuotaRow) []domain.QuotaRow { return bySeries(rows, seriesIntender) }

// SegmentBoosterRows selects booster quotas and tags each label with the
// series it belongs to.
func SegmentBoosterRows(rows []domain.QuotaRow) []domain.QuotaRow {
	return lo.Map(byQID2(rows, qid2SegBooster), func(r domain.QuotaRow, _ int) domain.QuotaRow {
		if r.Series == seriesOwnerBooster {
			r.Label += " - Owner"
		} else {
			r.Label += " - Intender"
		}
		return r
	})
}

func EVBoosterRows(rows []domain.QuotaRow) []domain.QuotaRow {
	return lo.Filter(rows, func(r domain.QuotaRow, _ int) bool { return r.Order == orderEVBooster })
}

func sheetRows(rows []domain.QuotaRow) []quotasheet.Row {
	return lo.Map(rows, func(r domain.QuotaRow, _ int) quotasheet.Row {
		return quotasheet.Row{Answer: r.Answer, Label: r.Label, Quota: r.Quota, Achieved: r.Achieved}
	})
}

func brandCounts(rows []domain.BrandDetailRow) []quotasheet.BrandCount {
	return lo.Map(rows, func(r domain.BrandDetailRow, _ int) quotasheet.BrandCount {
		return quotasheet.BrandCount{Code: r.BrandCode, Label: r.Label, Count: r.Count}
	})
}
