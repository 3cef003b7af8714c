// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bvk/pnlhistory/pnl"
	"github.com/bvk/pnlhistory/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

// Trades prints a single page of raw trade records.
type Trades struct {
	cmdutil.ClientFlags
	cmdutil.LogFlags

	fetcher pnl.Fetcher
}

func (c *Trades) Purpose() string {
	return "Prints one page of trade records for a wallet"
}

func (c *Trades) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("trades", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	c.LogFlags.SetFlags(fset)
	return "trades", fset, cli.CmdFunc(c.run)
}

func (c *Trades) run(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 3 {
		return fmt.Errorf("this command takes wallet address and optional limit and offset arguments")
	}
	wallet := args[0]
	limit, offset := pnl.DefaultPageSize, 0
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			return fmt.Errorf("limit argument must be a positive integer")
		}
		limit = v
	}
	if len(args) > 2 {
		v, err := strconv.Atoi(args[2])
		if err != nil || v < 0 {
			return fmt.Errorf("offset argument must be a non-negative integer")
		}
		offset = v
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

	page, err := fetcher.FetchPage(ctx, wallet, limit, offset)
	if err != nil {
		return fmt.Errorf("could not fetch trades: %w", err)
	}

	type TradeItem struct {
		CreatedAt time.Time `json:"createdAt"`
		PnlUSD    string    `json:"pnlUsd"`
	}
	type PageItem struct {
		Total  int          `json:"total"`
		Offset int          `json:"offset"`
		Trades []*TradeItem `json:"trades"`
	}
	item := &PageItem{Total: page.Total, Offset: offset, Trades: []*TradeItem{}}
	for _, t := range page.Trades {
		item.Trades = append(item.Trades, &TradeItem{CreatedAt: t.CreatedAt, PnlUSD: t.PnlUSD.String()})
	}

	stdout := cli.Stdout(ctx)
	if stdout == nil {
		stdout = os.Stdout
	}
	js, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s\n", js)
	return nil
}
