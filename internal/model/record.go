package model

// Record is a flat row destined for a table and, optionally, a message topic.
type Record interface {
	Key() string
	Row() []string
}

// Rows projects records into table rows.
func Rows[T Record](records []T) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows
}

// Records converts a typed slice to the Record interface.
func Records[T Record](records []T) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	return out
}
