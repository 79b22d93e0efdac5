package service

import (
	"strings"

	"github.com/samber/lo"

	"github.com/locvowork/quota_tracker/internal/domain"
)

// joinKey identifies a quota bucket. Textual ids are lowercased; the answer code is kept as-is.
type joinKey struct {
	market string
	qid    string
	qid2   string
	series string
	answer string
}

func quotaKey(r domain.QuotaRow) joinKey {
	return joinKey{
		market: strings.ToLower(r.Market),
		qid:    strings.ToLower(r.QID),
		qid2:   strings.ToLower(r.QID2),
		series: strings.ToLower(r.Series),
		answer: r.Answer,
	}
}

func completionKey(r domain.CompletionRow) joinKey {
	return joinKey{
		market: strings.ToLower(r.Market),
		qid:    strings.ToLower(r.QID),
		qid2:   strings.ToLower(r.QID2),
		series: strings.ToLower(r.Series),
		answer: r.Answer,
	}
}

// JoinCompletions returns a copy of quotas with Achieved taken from the matching
// completion row. The first completion seen for a key wins; quotas without a
// match get zero.
func JoinCompletions(quotas []domain.QuotaRow, completions []domain.CompletionRow) []domain.QuotaRow {
	index := make(map[joinKey]float64, len(completions))
	for _, c := range completions {
		k := completionKey(c)
		if _, ok := index[k]; !ok {
			index[k] = c.Count
		}
	}

	return lo.Map(quotas, func(q domain.QuotaRow, _ int) domain.QuotaRow {
		q.Achieved = index[quotaKey(q)]
		return q
	})
}

// ApplyConversions returns a copy of rows whose Achieved is the sum of every
// conversion whose code occurs in the row's answer text. Empty codes never match.
func ApplyConversions(rows []domain.QuotaRow, conversions []domain.ConversionRow) []domain.QuotaRow {
	return lo.Map(rows, func(r domain.QuotaRow, _ int) domain.QuotaRow {
		r.Achieved = lo.SumBy(conversions, func(c domain.ConversionRow) float64 {
			if c.Code == "" || !strings.Contains(r.Answer, c.Code) {
				return 0
			}
			return c.Count
		})
		return r
	})
}
