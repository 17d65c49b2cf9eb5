package importer

import "strings"

// RawRow is one logical line of delimited text split into fields.
type RawRow []string

const (
	byteOrderMark = "\uFEFF"
	delimiter     = ','
	quote         = '"'
)

// ReadDelimited splits comma-separated text into rows.
//
// A leading byte-order mark is dropped and CRLF, CR and LF all end a line.
// Fields may be wrapped in double quotes, in which case they can contain
// delimiters and line breaks, and a doubled quote stands for one literal
// quote. A quote that is still open at the end of the text closes there.
// Text following a closing quote is appended to the same field. Whitespace
// inside fields is preserved.
//
// Lines made of a single blank field are skipped. Rows are returned with
// however many fields the line produced; no column-count reconciliation
// happens here.
func ReadDelimited(text string) []RawRow {
	input := strings.TrimPrefix(text, byteOrderMark)
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	var (
		rows       []RawRow
		row        RawRow
		field      strings.Builder
		inQuotes   bool
		fieldStart = true
		pending    bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
		fieldStart = true
	}
	endRow := func() {
		endField()
		if !isBlankRow(row) {
			rows = append(rows, row)
		}
		row = nil
		pending = false
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		pending = true

		if inQuotes {
			if c != quote {
				field.WriteByte(c)
				continue
			}
			if i+1 < len(input) && input[i+1] == quote {
				field.WriteByte(quote)
				i++
				continue
			}
			inQuotes = false
			continue
		}

		switch c {
		case quote:
			if fieldStart {
				inQuotes = true
				fieldStart = false
				continue
			}
			field.WriteByte(c)
		case delimiter:
			endField()
		case '\n':
			endRow()
		default:
			field.WriteByte(c)
			fieldStart = false
		}
	}

	if pending {
		endRow()
	}

	return rows
}

func isBlankRow(row RawRow) bool {
	return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
}
