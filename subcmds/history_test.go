// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bvk/pnlhistory/perpapi"
	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"
)

type fakeFetcher struct {
	trades []*perpapi.Trade
	failAt int
	limits []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, wallet string, limit, offset int) (*perpapi.TradesPage, error) {
	f.limits = append(f.limits, limit)
	if offset == f.failAt {
		return nil, fmt.Errorf("%w: connection refused", perpapi.ErrNetwork)
	}
	end := min(offset+limit, len(f.trades))
	page := &perpapi.TradesPage{Trades: []*perpapi.Trade{}, Total: len(f.trades)}
	if offset < end {
		page.Trades = f.trades[offset:end]
	}
	return page, nil
}

func scenarioFetcher() *fakeFetcher {
	trade := func(s string, pnl int64) *perpapi.Trade {
		v, _ := time.Parse(time.RFC3339, s)
		return &perpapi.Trade{CreatedAt: v, PnlUSD: decimal.NewFromInt(pnl)}
	}
	return &fakeFetcher{
		failAt: -1,
		trades: []*perpapi.Trade{
			trade("2024-01-01T00:00:00Z", 1000000),
			trade("2024-01-01T12:00:00Z", -500000),
			trade("2024-01-02T00:00:00Z", 2000000),
		},
	}
}

func runCommand(t *testing.T, cmd cli.Command, flags, args []string) (string, string, error) {
	t.Helper()

	_, fset, fn := cmd.Command()
	fset.SetOutput(io.Discard)
	if err := fset.Parse(flags); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	switch c := cmd.(type) {
	case *History:
		c.stderr = &stderr
	}
	err := fn(cli.WithStdout(context.Background(), &stdout), args)
	return stdout.String(), stderr.String(), err
}

func TestHistoryMissingWallet(t *testing.T) {
	f := scenarioFetcher()
	stdout, stderr, err := runCommand(t, &History{fetcher: f}, nil, nil)

	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != ExitUsage {
		t.Fatalf("want usage exit error, got %v", err)
	}
	if !errors.Is(err, ErrMissingWallet) {
		t.Fatalf("want ErrMissingWallet, got %v", err)
	}
	want := fmt.Sprintf("Missing wallet address\nSpecify with \"%s history <wallet address>\"\n", ProgramName)
	if stderr != want {
		t.Fatalf("want stderr %q, got %q", want, stderr)
	}
	if stdout != "" {
		t.Fatalf("want empty stdout, got %q", stdout)
	}
	if len(f.limits) != 0 {
		t.Fatalf("want no fetches, got %d", len(f.limits))
	}
}

func TestHistoryScenario(t *testing.T) {
	stdout, _, err := runCommand(t, &History{fetcher: scenarioFetcher()}, []string{"-tz", "UTC"}, []string{"0xABC", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "1/1/2024: $0.50\n\nTotal PnL: $0.50\n"; stdout != want {
		t.Fatalf("want %q, got %q", want, stdout)
	}

	stdout, _, err = runCommand(t, &History{fetcher: scenarioFetcher()}, []string{"-tz", "UTC", "-fetch-all"}, []string{"0xABC", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "1/1/2024: $0.50\n1/2/2024: $2.00\n\nTotal PnL: $2.50\n"; stdout != want {
		t.Fatalf("want %q, got %q", want, stdout)
	}
}

func TestHistoryPageSize(t *testing.T) {
	testCases := []struct {
		args []string
		want int
	}{
		{[]string{"0xABC"}, 50},
		{[]string{"0xABC", "abc"}, 50},
		{[]string{"0xABC", "0"}, 50},
		{[]string{"0xABC", "-3"}, 50},
		{[]string{"0xABC", "7"}, 7},
		{[]string{"0xABC", "3", "extra", "args"}, 3},
	}
	for _, tc := range testCases {
		f := scenarioFetcher()
		if _, _, err := runCommand(t, &History{fetcher: f}, []string{"-tz", "UTC"}, tc.args); err != nil {
			t.Fatal(err)
		}
		if len(f.limits) == 0 || f.limits[0] != tc.want {
			t.Fatalf("%v: want limit %d, got %v", tc.args, tc.want, f.limits)
		}
	}
}

func TestHistoryFetchFailure(t *testing.T) {
	f := scenarioFetcher()
	f.failAt = 1
	stdout, stderr, err := runCommand(t, &History{fetcher: f}, []string{"-tz", "UTC"}, []string{"0xABC", "1"})

	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != ExitFailure {
		t.Fatalf("want fetch failure exit error, got %v", err)
	}
	if !errors.Is(err, perpapi.ErrNetwork) {
		t.Fatalf("want wrapped ErrNetwork, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("want no partial report, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "Failed to fetch trades") {
		t.Fatalf("want fetch failure message, got %q", stderr)
	}
}

func TestHistoryBadFlags(t *testing.T) {
	testCases := [][]string{
		{"-f", "csv"},
		{"-tz", "Mars/Olympus_Mons"},
		{"-period", "fortnight"},
		{"-period", "today", "-begin-date", "2024-01-01"},
		{"-end-date", "Jan 1"},
	}
	for _, flags := range testCases {
		f := scenarioFetcher()
		if _, _, err := runCommand(t, &History{fetcher: f}, flags, []string{"0xABC"}); err == nil {
			t.Fatalf("%v: want error, got nil", flags)
		}
		if len(f.limits) != 0 {
			t.Fatalf("%v: want no fetches, got %d", flags, len(f.limits))
		}
	}
}

func TestHistoryPeriodTable(t *testing.T) {
	flags := []string{"-tz", "UTC", "-fetch-all", "-f", "table", "-begin-date", "2024-01-02"}
	stdout, _, err := runCommand(t, &History{fetcher: scenarioFetcher()}, flags, []string{"0xABC"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stdout, "1/1/2024") || !strings.Contains(stdout, "1/2/2024") {
		t.Fatalf("want only 1/2/2024 in the table, got %q", stdout)
	}
}

// tradesServer serves pages of synthetic trades over http.
func tradesServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Query struct {
				JSON struct {
					Wallet string `json:"wallet"`
					Limit  int    `json:"limit"`
					Offset int    `json:"offset"`
				} `json:"json"`
			} `json:"0"`
		}
		if err := json.Unmarshal([]byte(r.URL.Query().Get("input")), &input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q := input.Query.JSON
		var trades []string
		for i := q.Offset; i < min(q.Offset+q.Limit, total); i++ {
			ts := time.Date(2024, 1, 1+i%2, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
			trades = append(trades, fmt.Sprintf(`{"createdAt":%q,"pnlUsd":"%d"}`, ts, 250000))
		}
		fmt.Fprintf(w, `[{"result":{"data":{"json":{"trades":[%s],"count":"%d"}}}}]`, strings.Join(trades, ","), total)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHistoryHTTP(t *testing.T) {
	server := tradesServer(t, 5)

	flags := []string{"-tz", "UTC", "-api-url", server.URL + "/trpc/trades"}
	stdout, _, err := runCommand(t, new(History), flags, []string{"0xABC", "2"})
	if err != nil {
		t.Fatal(err)
	}
	// Total is 5 with page size 2, so only offsets 0 and 2 are fetched.
	if want := "1/1/2024: $0.50\n1/2/2024: $0.50\n\nTotal PnL: $1.00\n"; stdout != want {
		t.Fatalf("want %q, got %q", want, stdout)
	}

	flags = append(flags, "-fetch-all")
	stdout, _, err = runCommand(t, new(History), flags, []string{"0xABC", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "1/1/2024: $0.75\n1/2/2024: $0.50\n\nTotal PnL: $1.25\n"; stdout != want {
		t.Fatalf("want %q, got %q", want, stdout)
	}

	stdout, _, err = runCommand(t, new(Trades), []string{"-api-url", server.URL + "/trpc/trades"}, []string{"0xABC", "2", "4"})
	if err != nil {
		t.Fatal(err)
	}
	var page struct {
		Total  int
		Trades []json.RawMessage
	}
	if err := json.Unmarshal([]byte(stdout), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || len(page.Trades) != 1 {
		t.Fatalf("want 1 trade out of 5, got %d out of %d", len(page.Trades), page.Total)
	}
}

func TestHistoryHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"error":{"json":{"message":"wallet not found"}}}]`))
	}))
	defer server.Close()

	flags := []string{"-api-url", server.URL}
	stdout, stderr, err := runCommand(t, new(History), flags, []string{"0xABC"})
	if !errors.Is(err, perpapi.ErrBadResponse) {
		t.Fatalf("want ErrBadResponse, got %v", err)
	}
	if stdout != "" || !strings.HasPrefix(stderr, "Failed to fetch trades") {
		t.Fatalf("want only the failure message, got stdout %q stderr %q", stdout, stderr)
	}
}
