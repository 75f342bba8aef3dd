package ui

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders rows under headers as a plain text table.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(headers)...)

	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}

	return table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// Mask hides all but the edges of a secret value.
func Mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:2] + "..." + secret[len(secret)-2:]
	}
}
