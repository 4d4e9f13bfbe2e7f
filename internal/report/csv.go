package report

import "strings"

// CSV renders t with an unquoted header row and every value quoted, rows
// joined by "\n" with no trailing newline.
func CSV(t Table) string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Headers, ","))
	for _, row := range t.Rows {
		b.WriteByte('\n')
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
