package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *EnvConfig

// defaultExcludedMarkets are survey waves with no reportable quota data.
var defaultExcludedMarkets = []string{"2022_SA", "2022_EG", "2022_AE", "2022_IL", "2022_KZ", "2022_MA"}

type EnvConfig struct {
	// data source config
	FETCH_URL           string
	FETCH_TIMEOUT       time.Duration
	FETCH_MAX_RETRIES   int
	FETCH_RETRY_BACKOFF time.Duration
	FETCH_PARALLEL      bool
	// spreadsheet config
	SPREADSHEET_ID              string
	SERVICE_ACCOUNT_EMAIL       string
	SERVICE_ACCOUNT_PRIVATE_KEY string
	SERVICE_ACCOUNT_FILE        string
	XLSX_OUTPUT_PATH            string
	STYLE_TEMPLATE_PATH         string
	// run config
	MARKET_FILTER_IN  []string
	MARKET_FILTER_OUT []string
	RUN_TIMEOUT       time.Duration
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env (if present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &EnvConfig{
		FETCH_URL:                   getEnvString("FETCH_URL", ""),
		FETCH_TIMEOUT:               getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		FETCH_MAX_RETRIES:           getEnvInt("FETCH_MAX_RETRIES", 2),
		FETCH_RETRY_BACKOFF:         getEnvDuration("FETCH_RETRY_BACKOFF", 500*time.Millisecond),
		FETCH_PARALLEL:              getEnvBool("FETCH_PARALLEL", false),
		SPREADSHEET_ID:              getEnvString("SPREADSHEET_ID", ""),
		SERVICE_ACCOUNT_EMAIL:       getEnvString("SERVICE_ACCOUNT_EMAIL", ""),
		SERVICE_ACCOUNT_PRIVATE_KEY: getEnvString("SERVICE_ACCOUNT_PRIVATE_KEY", ""),
		SERVICE_ACCOUNT_FILE:        getEnvString("SERVICE_ACCOUNT_FILE", ""),
		XLSX_OUTPUT_PATH:            getEnvString("XLSX_OUTPUT_PATH", ""),
		STYLE_TEMPLATE_PATH:         getEnvString("STYLE_TEMPLATE_PATH", ""),
		MARKET_FILTER_IN:            getEnvList("MARKET_FILTER_IN", nil),
		MARKET_FILTER_OUT:           getEnvList("MARKET_FILTER_OUT", defaultExcludedMarkets),
		RUN_TIMEOUT:                 getEnvDuration("RUN_TIMEOUT", 30*time.Minute),
		LOG_FILE_PATH:               getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:                   getEnvString("LOG_LEVEL", "info"),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value. An explicitly empty value ("-") clears the list.
func getEnvList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	if strings.TrimSpace(val) == "-" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
