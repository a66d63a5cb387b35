// Package frame is a small in-memory table used by the case-count pipeline.
//
// A Frame is an ordered list of column names plus rows. Each row maps column
// name to value; an absent key is the missing-value marker, and an empty
// string is never stored. Every operation returns a new Frame and leaves its
// receiver untouched.
package frame

import "slices"

// Row is one record keyed by column name.
type Row map[string]string

// Get returns the value for col and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Set stores v under col. An empty v marks the cell as missing.
func (r Row) Set(col, v string) {
	if v == "" {
		delete(r, col)
		return
	}
	r[col] = v
}

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Frame is an immutable table of rows with an ordered column set.
type Frame struct {
	columns []string
	rows    []Row
}

// New builds a Frame from columns and rows. Empty values in rows are dropped
// so that the missing-value invariant holds.
func New(columns []string, rows []Row) Frame {
	f := Frame{columns: dedupe(columns), rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr.Set(k, v)
		}
		f.rows = append(f.rows, nr)
	}
	return f
}

// Columns returns a copy of the column names in order.
func (f Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// Rows returns the rows. Callers must treat them as read-only.
func (f Frame) Rows() []Row {
	return f.rows
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether col is part of the column set.
func (f Frame) HasColumn(col string) bool {
	return slices.Contains(f.columns, col)
}

// Column returns the values of col in row order; missing cells are "".
func (f Frame) Column(col string) []string {
	out := make([]string, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[col]
	}
	return out
}

// Concat stacks frames vertically. Columns are the union in order of first
// appearance; cells a frame did not have stay missing.
func Concat(frames ...Frame) Frame {
	var columns []string
	total := 0
	for _, f := range frames {
		columns = append(columns, f.columns...)
		total += len(f.rows)
	}

	out := Frame{columns: dedupe(columns), rows: make([]Row, 0, total)}
	for _, f := range frames {
		for _, r := range f.rows {
			out.rows = append(out.rows, r.clone())
		}
	}
	return out
}

// Rename renames columns using mapping. Names not in mapping are kept. When
// two columns end up with the same name their values are coalesced, first
// column wins.
func (f Frame) Rename(mapping map[string]string) Frame {
	return f.RenameFunc(func(name string) string {
		if to, ok := mapping[name]; ok {
			return to
		}
		return name
	})
}

// RenameFunc renames every column through fn.
func (f Frame) RenameFunc(fn func(string) string) Frame {
	renamed := make([]string, len(f.columns))
	for i, c := range f.columns {
		renamed[i] = fn(c)
	}

	out := Frame{columns: dedupe(renamed), rows: make([]Row, len(f.rows))}
	for i, r := range f.rows {
		nr := make(Row, len(r))
		for j, c := range f.columns {
			v, ok := r[c]
			if !ok {
				continue
			}
			if _, taken := nr[renamed[j]]; !taken {
				nr[renamed[j]] = v
			}
		}
		// Keys outside the column set are carried through unchanged.
		for k, v := range r {
			if !slices.Contains(f.columns, k) {
				nr[fn(k)] = v
			}
		}
		out.rows[i] = nr
	}
	return out
}

// Drop removes the named columns. Unknown names are ignored.
func (f Frame) Drop(cols ...string) Frame {
	out := Frame{rows: make([]Row, len(f.rows))}
	for _, c := range f.columns {
		if !slices.Contains(cols, c) {
			out.columns = append(out.columns, c)
		}
	}
	for i, r := range f.rows {
		nr := r.clone()
		for _, c := range cols {
			delete(nr, c)
		}
		out.rows[i] = nr
	}
	return out
}

// Replace swaps exact matches in col according to mapping. Mapping a value
// to "" turns the cell into a missing value.
func (f Frame) Replace(col string, mapping map[string]string) Frame {
	out := Frame{columns: slices.Clone(f.columns), rows: make([]Row, len(f.rows))}
	for i, r := range f.rows {
		nr := r.clone()
		if v, ok := nr[col]; ok {
			if to, hit := mapping[v]; hit {
				nr.Set(col, to)
			}
		}
		out.rows[i] = nr
	}
	return out
}

// Apply computes dst from src for every row. Missing src cells are passed to
// fn as "". The first error aborts the whole operation.
func (f Frame) Apply(src, dst string, fn func(string) (string, error)) (Frame, error) {
	out := Frame{columns: appendColumn(f.columns, dst), rows: make([]Row, len(f.rows))}
	for i, r := range f.rows {
		v, err := fn(r[src])
		if err != nil {
			return Frame{}, err
		}
		nr := r.clone()
		nr.Set(dst, v)
		out.rows[i] = nr
	}
	return out, nil
}

// Coalesce sets dst to the first present value among cols, left to right.
func (f Frame) Coalesce(dst string, cols ...string) Frame {
	out := Frame{columns: appendColumn(f.columns, dst), rows: make([]Row, len(f.rows))}
	for i, r := range f.rows {
		nr := r.clone()
		delete(nr, dst)
		for _, c := range cols {
			if v, ok := r[c]; ok {
				nr[dst] = v
				break
			}
		}
		out.rows[i] = nr
	}
	return out
}

// DropMissing removes rows where col is missing and returns how many went.
func (f Frame) DropMissing(col string) (Frame, int) {
	out := Frame{columns: slices.Clone(f.columns), rows: make([]Row, 0, len(f.rows))}
	for _, r := range f.rows {
		if _, ok := r[col]; ok {
			out.rows = append(out.rows, r.clone())
		}
	}
	return out, len(f.rows) - len(out.rows)
}

// RemoveEmpty drops rows with no values and columns with no values.
func (f Frame) RemoveEmpty() Frame {
	seen := make(map[string]bool, len(f.columns))
	out := Frame{rows: make([]Row, 0, len(f.rows))}
	for _, r := range f.rows {
		if len(r) == 0 {
			continue
		}
		for k := range r {
			seen[k] = true
		}
		out.rows = append(out.rows, r.clone())
	}
	for _, c := range f.columns {
		if seen[c] {
			out.columns = append(out.columns, c)
		}
	}
	return out
}

func appendColumn(columns []string, col string) []string {
	out := slices.Clone(columns)
	if !slices.Contains(out, col) {
		out = append(out, col)
	}
	return out
}

func dedupe(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
