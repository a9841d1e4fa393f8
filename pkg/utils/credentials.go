package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ScopeSheetsReadonly is the only Google scope the importer needs
const ScopeSheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"

// ServiceAccountTokenSource loads a service-account key file and returns a token source for scopes.
// A leading "~/" in path is expanded to the user's home directory.
func ServiceAccountTokenSource(ctx context.Context, path string, scopes ...string) (oauth2.TokenSource, error) {
	resolved, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSONWithType(ctx, data, google.ServiceAccount, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return creds.TokenSource, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}
