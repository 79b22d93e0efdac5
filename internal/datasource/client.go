package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/locvowork/quota_tracker/internal/domain"
	"github.com/locvowork/quota_tracker/internal/logger"
)

const (
	CommandMarkets           = "GET_TOTAL_QUOTA"
	CommandQuotas            = "GET_COUNTRY_QUOTA"
	CommandCompletions       = "GET_COUNTRY_QUOTA_COM_CNT"
	CommandSeriesQuotas      = "GET_COUNTRY_QUOTA_SERIES"
	CommandSeriesCompletions = "GET_COUNTRY_QUOTA_COM_CNT_SERIES"
	CommandAgeConversions    = "GET_CONVERT_AGE"
	CommandRegionConversions = "GET_CONVERT_REGION"
	CommandOwnerData         = "GET_OWN_DATA"
)

// ErrNoURL is returned when the client is built without an endpoint.
var ErrNoURL = errors.New("datasource: fetch url is not configured")

// RetryPolicy defines how failed requests are retried
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy returns a default retry policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff:    500 * time.Millisecond,
	}
}

// Config holds data source connection configuration
type Config struct {
	URL     string
	Timeout time.Duration
	Retry   RetryPolicy
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Command    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("datasource: %s returned status %d: %s", e.Command, e.StatusCode, e.Body)
}

// Client queries the survey API with form-encoded POST requests.
type Client struct {
	url   string
	http  *http.Client
	retry RetryPolicy
}

// NewClient creates a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	retry := cfg.Retry
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &Client{url: cfg.URL, http: httpClient, retry: retry}, nil
}

func (c *Client) Markets(ctx context.Context) ([]domain.Market, error) {
	var records []marketRecord
	if err := c.query(ctx, CommandMarkets, "", nil, &records); err != nil {
		return nil, err
	}
	markets := make([]domain.Market, 0, len(records))
	for _, r := range records {
		markets = append(markets, r.toDomain())
	}
	return markets, nil
}

func (c *Client) Quotas(ctx context.Context, market string) ([]domain.QuotaRow, error) {
	return c.quotaRows(ctx, CommandQuotas, market)
}

func (c *Client) SeriesQuotas(ctx context.Context, market string) ([]domain.QuotaRow, error) {
	return c.quotaRows(ctx, CommandSeriesQuotas, market)
}

func (c *Client) Completions(ctx context.Context, market string) ([]domain.CompletionRow, error) {
	return c.completionRows(ctx, CommandCompletions, market)
}

func (c *Client) SeriesCompletions(ctx context.Context, market string) ([]domain.CompletionRow, error) {
	return c.completionRows(ctx, CommandSeriesCompletions, market)
}

func (c *Client) AgeConversions(ctx context.Context, market string) ([]domain.ConversionRow, error) {
	records, err := c.conversionRows(ctx, CommandAgeConversions, market)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.ConversionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.ConversionRow{Code: string(r.Age), Count: float64(r.Count)})
	}
	return rows, nil
}

func (c *Client) RegionConversions(ctx context.Context, market string) ([]domain.ConversionRow, error) {
	records, err := c.conversionRows(ctx, CommandRegionConversions, market)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.ConversionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, domain.ConversionRow{Code: string(r.Region), Count: float64(r.Count)})
	}
	return rows, nil
}

func (c *Client) OwnerBrandDetails(ctx context.Context, market string) ([]domain.BrandDetailRow, error) {
	var records []brandDetailRecord
	if err := c.query(ctx, CommandOwnerData, market, url.Values{"OWN": {"1"}}, &records); err != nil {
		return nil, err
	}
	rows := make([]domain.BrandDetailRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.toDomain())
	}
	return rows, nil
}

func (c *Client) quotaRows(ctx context.Context, command, market string) ([]domain.QuotaRow, error) {
	var records []quotaRecord
	if err := c.query(ctx, command, market, nil, &records); err != nil {
		return nil, err
	}
	rows := make([]domain.QuotaRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.toQuota())
	}
	return rows, nil
}

func (c *Client) completionRows(ctx context.Context, command, market string) ([]domain.CompletionRow, error) {
	var records []quotaRecord
	if err := c.query(ctx, command, market, nil, &records); err != nil {
		return nil, err
	}
	rows := make([]domain.CompletionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.toCompletion())
	}
	return rows, nil
}

func (c *Client) conversionRows(ctx context.Context, command, market string) ([]conversionRecord, error) {
	var records []conversionRecord
	if err := c.query(ctx, command, market, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// query posts one command and decodes the JSON array response into out,
// retrying transient failures with linear backoff.
func (c *Client) query(ctx context.Context, command, market string, extra url.Values, out interface{}) error {
	form := url.Values{}
	form.Set("CRUD", "SELECT")
	form.Set("COMMAND", command)
	for k, v := range extra {
		form[k] = v
	}
	if market != "" {
		form.Set("PKEY", market)
	}

	var err error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.retry.Backoff
			logger.DebugLog(ctx, "Retrying %s for %q in %s (attempt %d): %v", command, market, wait, attempt, err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", command, ctx.Err())
			case <-time.After(wait):
			}
		}
		err = c.post(ctx, command, form, out)
		if err == nil || !retryable(ctx, err) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, command string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Command: command, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "failed to decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// retryable reports whether err is worth another attempt: network failures and 5xx/429 responses.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var decErr *decodeError
	if errors.As(err, &decErr) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
