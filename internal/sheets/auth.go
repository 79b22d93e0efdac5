package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ErrNoCredentials is returned when neither a credentials file nor an inline service account is configured.
var ErrNoCredentials = errors.New("sheets: no service account credentials configured")

// TokenSource builds a service-account token source, preferring the credentials file.
func TokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	if cfg.ServiceAccountFile != "" {
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		jwtCfg, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account file: %w", err)
		}
		return jwtCfg.TokenSource(ctx), nil
	}

	if cfg.ServiceAccountEmail == "" || cfg.ServiceAccountPrivateKey == "" {
		return nil, ErrNoCredentials
	}
	jwtCfg := &jwt.Config{
		Email: cfg.ServiceAccountEmail,
		// Keys kept in env files carry literal "\n" sequences.
		PrivateKey: []byte(strings.ReplaceAll(cfg.ServiceAccountPrivateKey, `\n`, "\n")),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}
	return jwtCfg.TokenSource(ctx), nil
}
