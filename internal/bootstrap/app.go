package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"dario.cat/mergo"

	"github.com/locvowork/quota_tracker/internal/config"
	"github.com/locvowork/quota_tracker/internal/datasource"
	"github.com/locvowork/quota_tracker/internal/domain"
	"github.com/locvowork/quota_tracker/internal/logger"
	"github.com/locvowork/quota_tracker/internal/service"
	"github.com/locvowork/quota_tracker/internal/sheets"
	"github.com/locvowork/quota_tracker/pkg/quotasheet"
)

// Options override the environment configuration, typically from command-line flags.
type Options struct {
	Markets    []string
	Exclude    []string
	XLSXPath   string
	StylesPath string
	Timeout    time.Duration
	EnvFiles   []string
}

type App struct {
	Source  domain.QuotaSource
	Sink    domain.SheetSink
	Service *service.ReportService
	Timeout time.Duration
}

func NewApp() *App {
	return &App{}
}

func (a *App) Initialize(ctx context.Context, opts Options) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(opts.EnvFiles...); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env, err := opts.apply(*config.DefaultEnvConfig)
	if err != nil {
		return err
	}

	// Initialize logging
	logger.InitLogging(env.LOG_FILE_PATH, env.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	source, err := datasource.NewClient(datasource.Config{
		URL:     env.FETCH_URL,
		Timeout: env.FETCH_TIMEOUT,
		Retry: datasource.RetryPolicy{
			MaxRetries: env.FETCH_MAX_RETRIES,
			Backoff:    env.FETCH_RETRY_BACKOFF,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize data source: %w", err)
	}
	a.Source = source

	styles, err := quotasheet.LoadStyleSet(env.STYLE_TEMPLATE_PATH)
	if err != nil {
		return err
	}

	if xlsxPath := env.XLSX_OUTPUT_PATH; xlsxPath != "" {
		sink, err := sheets.NewXLSXSink(xlsxPath)
		if err != nil {
			return fmt.Errorf("failed to initialize workbook sink: %w", err)
		}
		a.Sink = sink
		logger.InfoLog(ctx, "Writing to local workbook %s", xlsxPath)
	} else {
		sink, err := sheets.NewGoogleSink(ctx, sheets.Config{
			SpreadsheetID:            env.SPREADSHEET_ID,
			ServiceAccountEmail:      env.SERVICE_ACCOUNT_EMAIL,
			ServiceAccountPrivateKey: env.SERVICE_ACCOUNT_PRIVATE_KEY,
			ServiceAccountFile:       env.SERVICE_ACCOUNT_FILE,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize google sheets sink: %w", err)
		}
		a.Sink = sink
		logger.InfoLog(ctx, "Writing to spreadsheet %s", env.SPREADSHEET_ID)
	}

	a.Timeout = env.RUN_TIMEOUT
	a.Service = service.NewReportService(a.Source, a.Sink, service.Config{
		IncludeMarkets: env.MARKET_FILTER_IN,
		ExcludeMarkets: env.MARKET_FILTER_OUT,
		ParallelFetch:  env.FETCH_PARALLEL,
		Styles:         styles,
	})
	return nil
}

// Run executes one report under the configured deadline and releases the sink.
func (a *App) Run(ctx context.Context) (*service.RunSummary, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	summary, runErr := a.Service.Run(ctx)
	if closer, ok := a.Sink.(io.Closer); ok {
		if err := closer.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to close sink: %w", err)
		}
	}
	return summary, runErr
}

// apply returns env with every option that is set taking precedence.
func (o Options) apply(env config.EnvConfig) (config.EnvConfig, error) {
	overrides := config.EnvConfig{
		MARKET_FILTER_IN:    o.Markets,
		MARKET_FILTER_OUT:   o.Exclude,
		XLSX_OUTPUT_PATH:    o.XLSXPath,
		STYLE_TEMPLATE_PATH: o.StylesPath,
		RUN_TIMEOUT:         o.Timeout,
	}
	if err := mergo.Merge(&env, overrides, mergo.WithOverride); err != nil {
		return env, fmt.Errorf("failed to apply options: %w", err)
	}
	return env, nil
}
