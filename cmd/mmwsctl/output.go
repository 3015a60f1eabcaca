package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jroosing/mmws/internal/entity"
)

// maxColumns caps the fields shown when listing entities as a table.
const maxColumns = 6

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printEntities prints entities as JSON or as a table of their scalar fields.
func (a *app) printEntities(entities []*entity.Entity) error {
	if a.jsonOut {
		return a.printJSON(entities)
	}
	if len(entities) == 0 {
		fmt.Fprintln(a.out, emptyStyle.Render("(no objects)"))
		return nil
	}
	cols := entityColumns(entities)
	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cell(e, c)
		}
		rows = append(rows, row)
	}
	renderTable(a.out, cols, rows)
	return nil
}

// entityColumns picks the reference field and then the scalar fields set
// on at least one entity, in schema order.
func entityColumns(entities []*entity.Entity) []string {
	schema := entities[0].Schema()
	ref := schema.RefField()
	cols := []string{ref}
	for _, name := range schema.Fields() {
		if len(cols) == maxColumns {
			break
		}
		if f, _ := schema.Field(name); name == ref || f.Kind != entity.Scalar {
			continue
		}
		for _, e := range entities {
			if e.Has(name) {
				cols = append(cols, name)
				break
			}
		}
	}
	return cols
}

// cell renders one table value. TTLs show as whole seconds, percentages
// with one decimal.
func cell(e *entity.Entity, name string) string {
	if !e.Has(name) {
		return ""
	}
	switch name {
	case "ttl":
		return strconv.FormatUint(uint64(e.Uint32(name)), 10)
	case "utilizationPercentage":
		return strconv.FormatFloat(e.Float(name), 'f', 1, 64)
	default:
		return e.String(name)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			padded := c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			parts[i] = style.Render(padded)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(headers, headerStyle))
	plain := lipgloss.NewStyle()
	for _, row := range rows {
		fmt.Fprintln(w, line(row, plain))
	}
}
