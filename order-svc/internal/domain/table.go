package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Table struct {
	Number int `json:"number"`
}

func (t Table) Code() string {
	return "table-" + strconv.Itoa(t.Number)
}

// TableSet is the fixed set of tables configured for the venue.
type TableSet struct {
	numbers map[int]struct{}
	ordered []Table
}

func NewTableSet(numbers []int) (*TableSet, error) {
	ts := &TableSet{numbers: make(map[int]struct{}, len(numbers))}
	for _, n := range numbers {
		if n < 1 {
			return nil, fmt.Errorf("table number %d must be positive", n)
		}
		if _, dup := ts.numbers[n]; dup {
			return nil, fmt.Errorf("table number %d listed twice", n)
		}
		ts.numbers[n] = struct{}{}
		ts.ordered = append(ts.ordered, Table{Number: n})
	}
	if len(ts.ordered) == 0 {
		return nil, fmt.Errorf("table set is empty")
	}
	sort.Slice(ts.ordered, func(i, j int) bool { return ts.ordered[i].Number < ts.ordered[j].Number })
	return ts, nil
}

// TableRange builds the numbers first..last inclusive.
func TableRange(first, last int) []int {
	var out []int
	for n := first; n <= last; n++ {
		out = append(out, n)
	}
	return out
}

func (ts *TableSet) Tables() []Table {
	return append([]Table(nil), ts.ordered...)
}

func (ts *TableSet) Lookup(number int) (Table, bool) {
	_, ok := ts.numbers[number]
	return Table{Number: number}, ok
}

// Resolve maps a scanned or typed code such as "table-5", "TABLE-5" or "5" to a table.
func (ts *TableSet) Resolve(code string) (Table, error) {
	raw := strings.TrimSpace(code)
	if len(raw) >= len("table-") && strings.EqualFold(raw[:len("table-")], "table-") {
		raw = strings.TrimSpace(raw[len("table-"):])
	}

	number, err := strconv.Atoi(raw)
	if err != nil {
		return Table{}, fmt.Errorf("code %q: %w", code, ErrUnknownTable)
	}
	table, ok := ts.Lookup(number)
	if !ok {
		return Table{}, fmt.Errorf("code %q: %w", code, ErrUnknownTable)
	}
	return table, nil
}
