package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	good   = color.New(color.FgGreen)
	subtle = color.New(color.FgHiBlack)
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		return strings.Join(parts, "  ")
	}

	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}

	fmt.Println(subtle.Sprint(line(headers)))
	fmt.Println(subtle.Sprint(line(seps)))
	for _, row := range rows {
		fmt.Println(line(row))
	}
}

func formatQuiet(v string) {
	if v != "" {
		fmt.Println(v)
	}
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		formatJSON(v)
	}
}

// status reports progress on stderr so stdout stays machine readable.
func status(msg string) {
	if flagFmt == "quiet" {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", good.Sprint("✓"), msg)
}
