// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bvk/pnlhistory/pnl"
	"github.com/bvk/pnlhistory/subcmds/cmdutil"
	"github.com/bvk/pnlhistory/timerange"
	"github.com/visvasity/cli"
)

type History struct {
	cmdutil.ClientFlags
	cmdutil.LogFlags

	format string

	timezone   string
	dateFormat string

	period             string
	beginDate, endDate string

	fetchAll bool

	// fetcher, when non-nil, is used instead of the http client.
	fetcher pnl.Fetcher

	stderr io.Writer
}

func (c *History) Purpose() string {
	return "Prints daily realized PnL for a wallet"
}

func (c *History) Description() string {
	return `

This "history" subcommand fetches all trade-history records for a wallet from
the trades api, one page at a time, and prints the realized PnL summed per
calendar day along with the total. Days are printed in the order they are first
seen in the trade history. Optional second argument is the page size, which
defaults to 50 when missing or invalid. Any further arguments are ignored.

Pagination stops once the number of fetched records reaches one less than the
total reported by the server, so the last record can be skipped when it starts
a new page. Use -fetch-all flag to fetch every page.

EXAMPLES

    # Print daily PnL for a wallet

    $ pnlhistory history 0x3f5CE5FBFe3E9af3971dD833D26bA9b5C936f0bE

    # Use 200 trades per page and UTC day boundaries

    $ pnlhistory history -tz UTC 0x3f5CE5FBFe3E9af3971dD833D26bA9b5C936f0bE 200

    # Print last month's PnL as a table

    $ pnlhistory history -f table -period last-month 0x3f5CE5FBFe3E9af3971dD833D26bA9b5C936f0bE

`
}

func (c *History) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("history", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	c.LogFlags.SetFlags(fset)
	fset.StringVar(&c.format, "f", "text", "Printed output format ("+strings.Join(pnl.Formats, "|")+")")
	fset.StringVar(&c.timezone, "tz", "", "IANA time zone for day boundaries (default is the local time zone)")
	fset.StringVar(&c.dateFormat, "date-format", pnl.DefaultDateLayout, "Go time layout for the day labels")
	fset.StringVar(&c.period, "period", "", "When non-empty, only trades in the period are counted ("+strings.Join(timerange.Periods(), "|")+")")
	fset.StringVar(&c.beginDate, "begin-date", "", "When non-empty, trades before this YYYY-MM-DD date are skipped")
	fset.StringVar(&c.endDate, "end-date", "", "When non-empty, trades after this YYYY-MM-DD date are skipped")
	fset.BoolVar(&c.fetchAll, "fetch-all", false, "When true, pages are fetched till the offset reaches the total")
	return "history", fset, cli.CmdFunc(c.run)
}

func (c *History) folder() (*pnl.Folder, error) {
	zone := time.Local
	if len(c.timezone) != 0 {
		v, err := time.LoadLocation(c.timezone)
		if err != nil {
			return nil, fmt.Errorf("could not load time zone %q: %w", c.timezone, err)
		}
		zone = v
	}

	f := &pnl.Folder{
		Location:   zone,
		DateLayout: c.dateFormat,
	}

	hasDates := len(c.beginDate) != 0 || len(c.endDate) != 0
	if len(c.period) != 0 && hasDates {
		return nil, errors.New("-period flag cannot be used with -begin-date or -end-date flags")
	}
	if len(c.period) != 0 {
		r, err := timerange.Parse(c.period, zone)
		if err != nil {
			return nil, err
		}
		f.Period = r
	}
	if hasDates {
		r, err := timerange.Dates(c.beginDate, c.endDate, zone)
		if err != nil {
			return nil, err
		}
		f.Period = r
	}
	return f, nil
}

// pageSize returns the page size argument or the default when it is not a
// positive integer.
func pageSize(args []string) int {
	if len(args) < 2 {
		return pnl.DefaultPageSize
	}
	v, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || v <= 0 {
		return pnl.DefaultPageSize
	}
	return v
}

func (c *History) run(ctx context.Context, args []string) error {
	stderr := c.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdout := cli.Stdout(ctx)
	if stdout == nil {
		stdout = os.Stdout
	}

	if len(args) == 0 || len(args[0]) == 0 {
		fmt.Fprintln(stderr, "Missing wallet address")
		fmt.Fprintf(stderr, "Specify with \"%s history <wallet address>\"\n", ProgramName)
		return &ExitError{Code: ExitUsage, Err: ErrMissingWallet}
	}
	wallet, limit := args[0], pageSize(args)

	if !slices.Contains(pnl.Formats, strings.ToLower(c.format)) {
		return fmt.Errorf("unknown/invalid print format %q", c.format)
	}
	folder, err := c.folder()
	if err != nil {
		return err
	}

	closer, err := c.LogFlags.Setup()
	if err != nil {
		return err
	}
	defer closer()

	fetcher := c.fetcher
	if fetcher == nil {
		client, err := c.ClientFlags.NewClient()
		if err != nil {
			return fmt.Errorf("could not create trades api client: %w", err)
		}
		defer client.Close()
		fetcher = client
	}

	opts := &pnl.CollectOptions{
		PageSize:   limit,
		Exhaustive: c.fetchAll,
		Folder:     folder,
	}
	days, _, err := pnl.Collect(ctx, fetcher, wallet, opts)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to fetch trades", err)
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return pnl.NewReport(days).Write(stdout, c.format)
}
