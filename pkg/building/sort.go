package building

import "sort"

// SortByHeightDescending returns all records ordered tallest first.
// Equal heights keep source order.
func SortByHeightDescending(t *Table) []Record {
	out := Head(recordsOf(t), t.Len())
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Height > out[j].Height
	})
	return out
}

// SortFirstNByYearAscending takes the first n records in source order and
// orders them by completion year, oldest first. Equal years keep source order.
func SortFirstNByYearAscending(t *Table, n int) []Record {
	out := Head(recordsOf(t), n)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionYear < out[j].CompletionYear
	})
	return out
}

// Head returns a copy of the first min(n, len(records)) records.
func Head(records []Record, n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]Record, n)
	copy(out, records[:n])
	return out
}

func recordsOf(t *Table) []Record {
	if t == nil {
		return nil
	}
	return t.Records
}
