// Copyright (c) 2025 BVK Chaitanya

package perpapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single trade-history record. Only the fields needed for the PnL
// reports are interpreted.
type Trade struct {
	CreatedAt time.Time

	// PnlUSD is the realized profit-and-loss in micro dollars (1e-6 USD).
	PnlUSD decimal.Decimal
}

// TradesPage is one page of trade records along with the total number of
// records reported by the server.
type TradesPage struct {
	Trades []*Trade
	Total  int
}

type tradesQuery struct {
	Wallet string `json:"wallet"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type batchQuery struct {
	JSON tradesQuery `json:"json"`
}

type batchRequest struct {
	Query batchQuery `json:"0"`
}

type tradeJSON struct {
	CreatedAt *Timestamp `json:"createdAt"`
	PnlUSD    FixedPoint `json:"pnlUsd"`
}

type tradesJSON struct {
	Trades []*tradeJSON `json:"trades"`
	Count  *Count       `json:"count"`
}

type dataJSON struct {
	JSON *tradesJSON `json:"json"`
}

type resultJSON struct {
	Data *dataJSON `json:"data"`
}

type batchItem struct {
	Result *resultJSON `json:"result"`
}

type batchResponse []*batchItem

// page validates the response shape and converts it into a TradesPage.
func (b batchResponse) page() (*TradesPage, error) {
	if len(b) == 0 || b[0] == nil {
		return nil, fmt.Errorf("%w: empty batch response", ErrBadResponse)
	}
	if b[0].Result == nil {
		return nil, fmt.Errorf("%w: batch item has no result field", ErrBadResponse)
	}
	if b[0].Result.Data == nil {
		return nil, fmt.Errorf("%w: result has no data field", ErrBadResponse)
	}
	js := b[0].Result.Data.JSON
	if js == nil {
		return nil, fmt.Errorf("%w: data has no json field", ErrBadResponse)
	}
	if js.Trades == nil {
		return nil, fmt.Errorf("%w: json has no trades field", ErrBadResponse)
	}
	if js.Count == nil {
		return nil, fmt.Errorf("%w: json has no count field", ErrBadResponse)
	}

	page := &TradesPage{
		Trades: make([]*Trade, 0, len(js.Trades)),
		Total:  int(*js.Count),
	}
	for i, t := range js.Trades {
		if t == nil {
			return nil, fmt.Errorf("%w: trade %d is null", ErrBadResponse, i)
		}
		if t.CreatedAt == nil {
			return nil, fmt.Errorf("%w: trade %d has no createdAt field", ErrBadResponse, i)
		}
		if !t.PnlUSD.present {
			return nil, fmt.Errorf("%w: trade %d has no pnlUsd field", ErrBadResponse, i)
		}
		page.Trades = append(page.Trades, &Trade{
			CreatedAt: t.CreatedAt.Time,
			PnlUSD:    t.PnlUSD.Decimal,
		})
	}
	return page, nil
}

// FixedPoint decodes a fixed-point amount given either as a JSON number or as
// a numeric string. Empty strings and nulls are decoded as zero.
//
// Fields of this type must not be pointers: a null must reach UnmarshalJSON
// to be told apart from an absent key.
type FixedPoint struct {
	Decimal decimal.Decimal

	present bool
}

func (v *FixedPoint) UnmarshalJSON(raw []byte) error {
	if s := string(raw); s == "null" || s == `""` {
		v.Decimal, v.present = decimal.Zero, true
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return err
	}
	v.Decimal, v.present = d, true
	return nil
}

func (v FixedPoint) MarshalJSON() ([]byte, error) {
	return v.Decimal.MarshalJSON()
}

// Count decodes a record count given either as a JSON number or as a numeric
// string.
type Count int64

func (v *Count) UnmarshalJSON(raw []byte) error {
	s := string(raw)
	if s == "null" {
		return fmt.Errorf("count cannot be null")
	}
	if len(s) >= 2 && s[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*v = Count(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("could not parse count value %s", raw)
	}
	*v = Count(int64(f))
	return nil
}

// timestampLayouts are tried in order for string timestamps. Layouts without
// a zone are parsed in UTC for date-only values and in the local zone
// otherwise.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02 15:04:05.999999999", true},
	{time.DateOnly, false},
}

// Timestamp decodes a trade creation time given either as a date-time string
// or as a number of milliseconds since the Unix epoch.
type Timestamp struct {
	time.Time
}

func (v *Timestamp) UnmarshalJSON(raw []byte) error {
	if s := string(raw); s == "null" || s == `""` {
		return fmt.Errorf("timestamp cannot be empty")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		for _, l := range timestampLayouts {
			loc := time.UTC
			if l.local {
				loc = time.Local
			}
			if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
				v.Time = t
				return nil
			}
		}
		return fmt.Errorf("could not parse timestamp %q", s)
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("could not parse timestamp %s: %w", raw, err)
	}
	v.Time = time.UnixMilli(int64(f))
	return nil
}
