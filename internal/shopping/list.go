// Package shopping builds the downloadable shopping list for a user's cart.
//
// Ingredient lines from every recipe in the cart are merged by the exact
// (name, unit) pair and summed. Rows keep the order in which their key was
// first seen, so the report follows cart order and then each recipe's
// ingredient order.
package shopping

import (
	"bytes"
	"io"
	"iter"
	"strconv"
)

// IngredientLine is one ingredient requirement contributed by one recipe.
type IngredientLine struct {
	Name   string
	Unit   string
	Amount uint
}

// Key identifies a row of the shopping list. Matching is exact and case-sensitive.
type Key struct {
	Name string
	Unit string
}

// Row is a merged shopping list entry.
type Row struct {
	Key
	Total uint
}

// List accumulates ingredient lines. The zero value is ready to use.
type List struct {
	index map[Key]int
	rows  []Row
}

// Aggregate merges every line produced by lines into a new List.
func Aggregate(lines iter.Seq[IngredientLine]) *List {
	l := &List{}
	for line := range lines {
		l.Add(line)
	}
	return l
}

// Add merges a single line into the list.
func (l *List) Add(line IngredientLine) {
	if l.index == nil {
		l.index = make(map[Key]int)
	}

	key := Key{Name: line.Name, Unit: line.Unit}
	if i, ok := l.index[key]; ok {
		l.rows[i].Total += line.Amount
		return
	}

	l.index[key] = len(l.rows)
	l.rows = append(l.rows, Row{Key: key, Total: line.Amount})
}

// Len returns the number of distinct rows.
func (l *List) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the merged rows in first-seen order.
func (l *List) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Lines renders each row as "name (unit) - total\n".
func (l *List) Lines() []string {
	lines := make([]string, 0, len(l.rows))
	for _, r := range l.rows {
		lines = append(lines, formatRow(r))
	}
	return lines
}

// Bytes returns the full report body.
func (l *List) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = l.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the report to w.
func (l *List) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, r := range l.rows {
		n, err := io.WriteString(w, formatRow(r))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func formatRow(r Row) string {
	return r.Name + " (" + r.Unit + ") - " + strconv.FormatUint(uint64(r.Total), 10) + "\n"
}
