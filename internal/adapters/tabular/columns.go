package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// Column declares one expected column of a sheet schema.
type Column struct {
	Name     string
	Required bool
	Aliases  []string
}

// binding maps declared column names to header indexes.
type binding struct {
	table    *Table
	index    map[string]int
	required []string
}

// bind matches the table headers against the declared columns,
// case-insensitively. A missing required column is fatal.
func (t *Table) bind(cols []Column) (*binding, error) {
	byHeader := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		byHeader[normalizeHeader(h)] = i
	}

	b := &binding{table: t, index: make(map[string]int, len(cols))}
	for _, col := range cols {
		if col.Required {
			b.required = append(b.required, col.Name)
		}
		idx, ok := byHeader[normalizeHeader(col.Name)]
		if !ok {
			for _, alias := range col.Aliases {
				if i, found := byHeader[normalizeHeader(alias)]; found {
					idx, ok = i, true
					break
				}
			}
		}
		if !ok {
			if col.Required {
				return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, col.Name, t.Sheet)
			}
			continue
		}
		b.index[col.Name] = idx
	}
	return b, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

// firstBlankRequired returns the name of the first required column whose
// cell is empty in the record, or "" when all are filled.
func (b *binding) firstBlankRequired(record []string) string {
	for _, col := range b.required {
		if b.cell(record, col) == "" {
			return col
		}
	}
	return ""
}

// cell returns the trimmed cell text for a declared column, or "" when
// the column is absent or the record is short.
func (b *binding) cell(record []string, col string) string {
	idx, ok := b.index[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (b *binding) intCell(record []string, col string) (int, error) {
	s := b.cell(record, col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %q: not an integer: %q", col, s)
	}
	return n, nil
}

func (b *binding) floatCell(record []string, col string) (float64, error) {
	s := b.cell(record, col)
	if s == "" {
		return 0, nil
	}
	// Tolerate decimal commas from German locale exports.
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: not a number: %q", col, s)
	}
	return v, nil
}

func (b *binding) boolCell(record []string, col string) (bool, error) {
	s := strings.ToLower(b.cell(record, col))
	switch s {
	case "true", "yes", "ja", "y", "1", "x":
		return true, nil
	case "", "false", "no", "nein", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("column %q: not a flag value: %q", col, s)
	}
}
