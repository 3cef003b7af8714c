// Copyright (c) 2025 BVK Chaitanya

package pnl

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bvk/pnlhistory/perpapi"
)

// DefaultPageSize is the number of trades requested per page when the caller
// doesn't pick one.
const DefaultPageSize = 50

// Fetcher fetches one page of trades.
type Fetcher interface {
	FetchPage(ctx context.Context, wallet string, limit, offset int) (*perpapi.TradesPage, error)
}

type CollectOptions struct {
	// PageSize is the limit for every page request. Defaults to
	// DefaultPageSize.
	PageSize int

	// Exhaustive when true keeps fetching while offset < total. By default,
	// fetching stops once offset >= total-1, so the last record can be missed
	// when it falls at the start of a new page.
	Exhaustive bool

	Folder *Folder
}

// Cursor tracks the pagination progress.
type Cursor struct {
	Offset int

	// Total is the record count from the first page response.
	Total int

	// Pages is the number of fetch calls made.
	Pages int
}

func (c *Cursor) more(exhaustive bool) bool {
	if exhaustive {
		return c.Offset < c.Total
	}
	return c.Offset < c.Total-1
}

// FetchError is returned when a page fetch fails. Results from earlier pages
// are discarded.
type FetchError struct {
	Offset int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not fetch trades at offset %d: %v", e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Collect fetches the wallet's trade pages one at a time in increasing offset
// order and folds them into per-day buckets. The first fetch error aborts the
// collection and no buckets are returned.
func Collect(ctx context.Context, f Fetcher, wallet string, opts *CollectOptions) (*DayMap, *Cursor, error) {
	if opts == nil {
		opts = new(CollectOptions)
	}
	if wallet == "" {
		return nil, nil, fmt.Errorf("wallet address cannot be empty: %w", os.ErrInvalid)
	}
	limit := opts.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}

	cursor := new(Cursor)
	fetch := func() (*perpapi.TradesPage, error) {
		cursor.Pages++
		page, err := f.FetchPage(ctx, wallet, limit, cursor.Offset)
		if err != nil {
			return nil, &FetchError{Offset: cursor.Offset, Err: err}
		}
		return page, nil
	}

	page, err := fetch()
	if err != nil {
		return nil, nil, err
	}
	cursor.Total = page.Total

	days := opts.Folder.Fold(nil, page.Trades)
	cursor.Offset += len(page.Trades)

	for cursor.more(opts.Exhaustive) {
		page, err := fetch()
		if err != nil {
			return nil, nil, err
		}
		if len(page.Trades) == 0 {
			slog.Warn("trades page is empty before reaching the total (stopping)", "wallet", wallet, "offset", cursor.Offset, "total", cursor.Total)
			break
		}
		days = opts.Folder.Fold(days, page.Trades)
		cursor.Offset += len(page.Trades)
	}

	slog.Debug("collected trades", "wallet", wallet, "offset", cursor.Offset, "total", cursor.Total, "pages", cursor.Pages, "days", days.Len())
	return days, cursor, nil
}
