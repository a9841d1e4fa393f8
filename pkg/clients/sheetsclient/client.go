package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flowchartsman/retry"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/relief-coordinator/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	retrier *retry.Retrier
}

// NewClient creates a read-only Sheets client authenticated with a service-account key file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	tokenSource, err := utils.ServiceAccountTokenSource(ctx, credentialsFile, utils.ScopeSheetsReadonly)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		retrier: retry.NewRetrier(5, 100*time.Millisecond, time.Second),
	}, nil
}

// GetValues reads values from a spreadsheet range, retrying transient API failures
func (c *Client) GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error) {
	var values [][]interface{}
	err := c.retrier.RunContext(ctx, func(ctx context.Context) error {
		resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
		if err != nil {
			if !isRetryable(err) {
				return retry.Stop(err)
			}
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return values, nil
}

// isRetryable reports whether a Sheets API error is worth another attempt:
// rate limiting, server errors and anything that never reached the API
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
