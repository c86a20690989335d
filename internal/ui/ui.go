package ui

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
)

// DisplayPath replaces the user's home directory prefix with ~.
func DisplayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// IsTerminal reports whether w writes to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintTable writes rows with optional indent to the writer, padding every
// column but the last to its widest cell.
func PrintTable(w io.Writer, rows [][]string, indent int) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, lo.Max(lo.Map(rows, func(r []string, _ int) int { return len(r) })))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(stripAnsi(cell)))
		}
	}

	prefix := strings.Repeat(" ", indent)
	for _, row := range rows {
		fmt.Fprint(w, prefix)
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprint(w, cell)
			if padding := widths[i] - len(stripAnsi(cell)); i < len(row)-1 && padding > 0 {
				fmt.Fprint(w, strings.Repeat(" ", padding))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintFields writes key/value pairs as an aligned two-column table, keys
// sorted and bold.
func PrintFields(w io.Writer, fields map[string]string, indent int) {
	keys := lo.Keys(fields)
	slices.Sort(keys)
	rows := lo.Map(keys, func(k string, _ int) []string {
		return []string{Bold(k + ":"), fields[k]}
	})
	PrintTable(w, rows, indent)
}

// PrintTree writes a nested map, as produced from XML output, one key per
// line with children indented below their parent.
func PrintTree(w io.Writer, tree map[string]any, indent int) {
	keys := lo.Keys(tree)
	slices.Sort(keys)
	prefix := strings.Repeat(" ", indent)
	for _, k := range keys {
		printNode(w, prefix, k, tree[k], indent)
	}
}

func printNode(w io.Writer, prefix, key string, v any, indent int) {
	switch node := v.(type) {
	case map[string]any:
		fmt.Fprintf(w, "%s%s\n", prefix, Bold(key))
		PrintTree(w, node, indent+2)
	case []any:
		for _, item := range node {
			printNode(w, prefix, key, item, indent)
		}
	default:
		fmt.Fprintf(w, "%s%s %s\n", prefix, Bold(key+":"), fmt.Sprint(node))
	}
}

// stripAnsi removes ANSI escape codes for width calculation.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// Color helpers
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.FgHiBlack).SprintFunc()
)
