package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/locvowork/quota_tracker/internal/domain"
)

// text accepts a JSON string, number or null.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = text(n.String())
	return nil
}

// number accepts a JSON number, a numeric string or null. Null and "" read as zero.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected numeric value, got %s", data)
	}
	*n = number(f)
	return nil
}

type marketRecord struct {
	PKey        text `json:"PKEY"`
	CountryCode text `json:"country_code"`
	CountryName text `json:"country_name"`
}

func (r marketRecord) toDomain() domain.Market {
	return domain.Market{Key: string(r.PKey), CountryCode: string(r.CountryCode), Name: string(r.CountryName)}
}

type quotaRecord struct {
	PKey   text   `json:"PKEY"`
	QID    text   `json:"QID"`
	QID2   text   `json:"QID_2"`
	Answer text   `json:"ANS"`
	Label  text   `json:"LABEL"`
	Series text   `json:"Q83_VAL"`
	Order  text   `json:"QSORDER"`
	Quota  number `json:"ORI_CNT"`
	Count  number `json:"COM_CNT"`
}

func (r quotaRecord) toQuota() domain.QuotaRow {
	return domain.QuotaRow{
		Market:   string(r.PKey),
		QID:      string(r.QID),
		QID2:     string(r.QID2),
		Answer:   string(r.Answer),
		Label:    string(r.Label),
		Series:   string(r.Series),
		Order:    string(r.Order),
		Quota:    float64(r.Quota),
		Achieved: float64(r.Count),
	}
}

func (r quotaRecord) toCompletion() domain.CompletionRow {
	return domain.CompletionRow{
		Market: string(r.PKey),
		QID:    string(r.QID),
		QID2:   string(r.QID2),
		Answer: string(r.Answer),
		Series: string(r.Series),
		Count:  float64(r.Count),
	}
}

type conversionRecord struct {
	Age    text   `json:"AGE"`
	Region text   `json:"REGION"`
	Count  number `json:"COM_CNT"`
}

type brandDetailRecord struct {
	BrandCode text   `json:"BRAND_CD"`
	Label     text   `json:"LABEL"`
	Count     number `json:"CNT"`
}

func (r brandDetailRecord) toDomain() domain.BrandDetailRow {
	return domain.BrandDetailRow{BrandCode: string(r.BrandCode), Label: string(r.Label), Count: float64(r.Count)}
}
