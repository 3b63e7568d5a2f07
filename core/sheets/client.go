package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// SheetInfo describes one sheet inside a workbook.
type SheetInfo struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	RowCount int64  `json:"row_count"`
	ColCount int64  `json:"col_count"`
}

// Client defines the read-only spreadsheet API surface used by the sync
// engine. All implementations must respect the shared rate limit.
type Client interface {
	// ListSheets returns the sheets of a workbook in workbook order.
	ListSheets(ctx context.Context, spreadsheetID string) ([]SheetInfo, error)
	// GetValues returns raw, unformatted cell values for a range expression.
	GetValues(ctx context.Context, spreadsheetID, rangeExpr string) ([][]any, error)
	// TestConnection verifies that credentials and the API are usable.
	TestConnection(ctx context.Context) error
}

// NewClient creates a Google Sheets API client that routes every call
// through the given rate limiter.
func NewClient(ctx context.Context, cfg Config, limiter *RateLimiter, logger *zap.Logger) (Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &googleClient{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		limiter:       limiter,
		maxRetries:    maxRetries,
		logger:        logger,
	}, nil
}

type googleClient struct {
	svc           *gsheets.Service
	spreadsheetID string
	limiter       *RateLimiter
	maxRetries    int
	logger        *zap.Logger
}

func (c *googleClient) ListSheets(ctx context.Context, spreadsheetID string) ([]SheetInfo, error) {
	resp, err := execute(ctx, c, func() (*gsheets.Spreadsheet, error) {
		return c.svc.Spreadsheets.Get(spreadsheetID).
			Fields("sheets(properties(sheetId,title,gridProperties(rowCount,columnCount)))").
			Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets of %s: %w", spreadsheetID, err)
	}

	infos := make([]SheetInfo, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		info := SheetInfo{
			ID:    sh.Properties.SheetId,
			Title: sh.Properties.Title,
		}
		if gp := sh.Properties.GridProperties; gp != nil {
			info.RowCount = gp.RowCount
			info.ColCount = gp.ColumnCount
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (c *googleClient) GetValues(ctx context.Context, spreadsheetID, rangeExpr string) ([][]any, error) {
	resp, err := execute(ctx, c, func() (*gsheets.ValueRange, error) {
		return c.svc.Spreadsheets.Values.Get(spreadsheetID, rangeExpr).
			ValueRenderOption("UNFORMATTED_VALUE").
			Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get values %s!%s: %w", spreadsheetID, rangeExpr, err)
	}

	rows := make([][]any, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = row
	}
	return rows, nil
}

func (c *googleClient) TestConnection(ctx context.Context) error {
	_, err := execute(ctx, c, func() (*gsheets.Spreadsheet, error) {
		return c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	})
	return err
}

// execute runs one API call through the rate limiter, retrying quota errors
// with exponential backoff up to the configured attempt bound. Non-quota
// errors propagate immediately.
func execute[T any](ctx context.Context, c *googleClient, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.BeforeRequest(ctx); err != nil {
			return zero, err
		}

		resp, err := call()
		if err == nil {
			c.limiter.OnSuccess()
			return resp, nil
		}

		if !IsQuotaError(err) {
			return zero, err
		}

		lastErr = err
		c.logger.Warn("Quota error from sheets API, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", c.limiter.BackoffDelay()),
			zap.Error(err))

		if err := c.limiter.OnQuotaError(ctx); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("quota retries exhausted after %d attempts: %w", c.maxRetries+1, lastErr)
}

// IsQuotaError reports whether err is a rate/quota rejection (HTTP 429, or
// 403 with a rate-limit reason).
func IsQuotaError(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}
