package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/s0up4200/genderapi/genderapi"
)

// batchItem is the outcome of one input line of a batch
type batchItem struct {
	Input  string
	Result genderapi.Result
	Err    error
}

// MarshalJSON renders the item with its error as a string
func (b batchItem) MarshalJSON() ([]byte, error) {
	out := struct {
		Input  string           `json:"input"`
		Result genderapi.Result `json:"result,omitempty"`
		Error  string           `json:"error,omitempty"`
	}{Input: b.Input, Result: b.Result}
	if b.Err != nil {
		out.Error = b.Err.Error()
	}
	return json.Marshal(out)
}

// printResult writes a single lookup result in the requested format
func printResult(w io.Writer, format string, res genderapi.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	switch r := res.(type) {
	case *genderapi.SuccessResult:
		fmt.Fprintf(w, "• %s: %s\n", displayName(r), describeGender(r))
		if r.Country != "" {
			fmt.Fprintf(w, "  Country: %s\n", r.Country)
		}
		if r.TotalNames != nil {
			fmt.Fprintf(w, "  Samples: %d\n", *r.TotalNames)
		}
		if r.UsedCredits != nil || r.RemainingCredits != nil {
			fmt.Fprintf(w, "  Credits: %s used, %s remaining\n", optInt(r.UsedCredits), optInt(r.RemainingCredits))
		}
		if !r.ExpiresAt().IsZero() {
			fmt.Fprintf(w, "  Expires: %s\n", r.ExpiresAt().Format("2006-01-02"))
		}
		if r.Duration != "" {
			fmt.Fprintf(w, "  Duration: %s\n", r.Duration)
		}
	case *genderapi.ErrorResult:
		fmt.Fprintf(w, "✗ Service error %d: %s\n", r.Errno, r.Errmsg)
	default:
		return fmt.Errorf("unexpected result type %T", res)
	}
	return nil
}

// printBatch writes batch items in the requested format, preserving order
func printBatch(w io.Writer, format string, items []batchItem) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INPUT\tGENDER\tPROBABILITY\tCOUNTRY\tNOTE")
	for _, item := range items {
		switch r := item.Result.(type) {
		case *genderapi.SuccessResult:
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", item.Input, genderOrDash(r.Gender), optPercent(r.Probability), dash(r.Country))
		case *genderapi.ErrorResult:
			fmt.Fprintf(tw, "%s\t-\t-\t-\terror %d: %s\n", item.Input, r.Errno, r.Errmsg)
		default:
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%v\n", item.Input, item.Err)
		}
	}
	return tw.Flush()
}

func displayName(r *genderapi.SuccessResult) string {
	if r.Name != "" {
		return r.Name
	}
	if r.Query != "" {
		return r.Query
	}
	return "(unnamed)"
}

func describeGender(r *genderapi.SuccessResult) string {
	if !r.Gender.Known() {
		return "unknown"
	}
	if r.Probability == nil {
		return string(r.Gender)
	}
	return fmt.Sprintf("%s (%d%%)", r.Gender, *r.Probability)
}

func genderOrDash(g genderapi.Gender) string {
	if !g.Known() {
		return "-"
	}
	return string(g)
}

func optInt(p *int) string {
	if p == nil {
		return "?"
	}
	return strconv.Itoa(*p)
}

func optPercent(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p) + "%"
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
