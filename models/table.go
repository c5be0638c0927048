package models

// Row is one table row: raw cell text in column order
type Row []string

// Table is a header row plus data rows. Every row has len(Headers) cells.
type Table struct {
	Headers []string
	Rows    []Row
}

// Empty reports whether the table carries no data rows
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// MarkerRow builds the synthetic row that labels a block of rows with its brand.
// The label goes in the first column, every other column is blank.
func MarkerRow(label string, width int) Row {
	if width <= 0 {
		return nil
	}
	row := make(Row, width)
	row[0] = label
	return row
}

// Concat joins tables row-wise, aligning columns by header label.
// Output headers are the union of labels in first-seen order; a column missing
// from a table is filled with "". A label repeated within one table is matched
// by occurrence, so the second "Part" of one table lines up with the second
// "Part" of another.
func Concat(tables ...Table) Table {
	var result Table

	index := make(map[columnKey]int)
	for _, t := range tables {
		for _, key := range columnKeys(t.Headers) {
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = len(result.Headers)
			result.Headers = append(result.Headers, key.label)
		}
	}

	for _, t := range tables {
		if len(t.Rows) == 0 {
			continue
		}

		// Fast path: same header layout, copy rows as they are
		if sameHeaders(t.Headers, result.Headers) {
			for _, row := range t.Rows {
				result.Rows = append(result.Rows, append(Row(nil), row...))
			}
			continue
		}

		positions := make([]int, len(t.Headers))
		for i, key := range columnKeys(t.Headers) {
			positions[i] = index[key]
		}
		for _, row := range t.Rows {
			aligned := make(Row, len(result.Headers))
			for i, cell := range row {
				if i < len(positions) {
					aligned[positions[i]] = cell
				}
			}
			result.Rows = append(result.Rows, aligned)
		}
	}

	return result
}

type columnKey struct {
	label      string
	occurrence int
}

func columnKeys(headers []string) []columnKey {
	seen := make(map[string]int, len(headers))
	keys := make([]columnKey, len(headers))
	for i, h := range headers {
		keys[i] = columnKey{label: h, occurrence: seen[h]}
		seen[h]++
	}
	return keys
}

func sameHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
