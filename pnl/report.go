// Copyright (c) 2025 BVK Chaitanya

package pnl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Formats lists the supported report formats.
var Formats = []string{"text", "table", "json", "yaml"}

// microShift converts micro dollar amounts into dollars.
const microShift = -6

type DayPnL struct {
	Day string

	// PnL is in dollars.
	PnL decimal.Decimal

	NumTrades int
}

// Report is the rendered form of a DayMap with amounts in dollars.
type Report struct {
	Days []*DayPnL

	Total decimal.Decimal

	NumTrades int
}

func NewReport(m *DayMap) *Report {
	r := new(Report)
	if m == nil {
		return r
	}
	for day, sum := range m.All() {
		r.Days = append(r.Days, &DayPnL{
			Day:       day,
			PnL:       sum.Shift(microShift),
			NumTrades: m.NumTrades(day),
		})
		r.NumTrades += m.NumTrades(day)
	}
	r.Total = m.Total().Shift(microShift)
	return r
}

func dollars(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// Write writes the report in one of the Formats.
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		return r.WriteText(w)
	case "table":
		return r.WriteTable(w)
	case "json":
		return r.WriteJSON(w)
	case "yaml":
		return r.WriteYAML(w)
	default:
		return fmt.Errorf("unknown/invalid report format %q", format)
	}
}

// WriteText writes one "<day>: $<amount>" line per day, a blank line and the
// total line.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	for _, d := range r.Days {
		fmt.Fprintf(&sb, "%s: $%s\n", d.Day, dollars(d.PnL))
	}
	fmt.Fprintln(&sb)
	fmt.Fprintf(&sb, "Total PnL: $%s\n", dollars(r.Total))
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Day\tPnL\tTrades\t\n")
	for _, d := range r.Days {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\n", d.Day, dollars(d.PnL), d.NumTrades)
	}
	fmt.Fprintf(tw, "Total\t%s\t%d\t\n", dollars(r.Total), r.NumTrades)
	return tw.Flush()
}

type dayDoc struct {
	Day    string `json:"day" yaml:"day"`
	PnL    string `json:"pnl" yaml:"pnl"`
	Trades int    `json:"trades" yaml:"trades"`
}

type reportDoc struct {
	Days   []dayDoc `json:"days" yaml:"days"`
	Total  string   `json:"total" yaml:"total"`
	Trades int      `json:"trades" yaml:"trades"`
}

func (r *Report) doc() *reportDoc {
	doc := &reportDoc{
		Days:   []dayDoc{},
		Total:  dollars(r.Total),
		Trades: r.NumTrades,
	}
	for _, d := range r.Days {
		doc.Days = append(doc.Days, dayDoc{Day: d.Day, PnL: dollars(d.PnL), Trades: d.NumTrades})
	}
	return doc
}

func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.Marshal(r.doc())
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.doc()); err != nil {
		return err
	}
	return enc.Close()
}
