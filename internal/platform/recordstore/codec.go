package recordstore

import "strings"

// The field delimiter is a comma. Backslash, comma, and line breaks inside a
// field are escaped so every record round-trips losslessly from one line.

// EncodeFields joins fields into a single escaped line.
func EncodeFields(fields []string) string {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		for _, r := range field {
			switch r {
			case '\\':
				b.WriteString(`\\`)
			case ',':
				b.WriteString(`\,`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// DecodeFields splits an escaped line back into its fields.
func DecodeFields(line string) []string {
	fields := make([]string, 0, 8)
	var b strings.Builder
	escaped := false
	for _, r := range line {
		if escaped {
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case ',':
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())
	return fields
}
