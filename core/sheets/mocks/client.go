package mocks

import (
	"context"

	"pjstats/core/sheets"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of sheets.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListSheets(ctx context.Context, spreadsheetID string) ([]sheets.SheetInfo, error) {
	args := m.Called(ctx, spreadsheetID)
	if infos, ok := args.Get(0).([]sheets.SheetInfo); ok {
		return infos, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetValues(ctx context.Context, spreadsheetID, rangeExpr string) ([][]any, error) {
	args := m.Called(ctx, spreadsheetID, rangeExpr)
	if rows, ok := args.Get(0).([][]any); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
