package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is a canonical transaction attribute that import columns map into.
type Field string

// Canonical fields.
const (
	FieldTitle      Field = "title"
	FieldType       Field = "type"
	FieldPrice      Field = "price"
	FieldCurrency   Field = "currency"
	FieldPlatform   Field = "platform"
	FieldGenre      Field = "genre"
	FieldStore      Field = "store"
	FieldStatus     Field = "status"
	FieldDate       Field = "purchase_date"
	FieldNotes      Field = "notes"
	FieldParentGame Field = "parent_game_name"
)

// Fields lists every canonical field in schema order.
var Fields = []Field{
	FieldTitle, FieldType, FieldPrice, FieldCurrency, FieldPlatform, FieldGenre,
	FieldStore, FieldStatus, FieldDate, FieldNotes, FieldParentGame,
}

// FieldByName returns the canonical field with the given name.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Record holds the raw value of each canonical field for one input row.
// A field that the source did not provide is absent from the map.
type Record map[Field]string

// Get returns the raw value of f, or "" when absent.
func (r Record) Get(f Field) string {
	return r[f]
}

// RecordFromExtracted converts one loosely-typed object returned by the text
// extractor into a Record. Keys that are not canonical field names are
// ignored; numbers and booleans are rendered as text so they go through the
// same validation as spreadsheet cells.
func RecordFromExtracted(obj map[string]any) Record {
	rec := make(Record, len(obj))
	for key, value := range obj {
		field, ok := FieldByName(strings.ToLower(strings.TrimSpace(key)))
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			rec[field] = v
		case float64:
			rec[field] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			rec[field] = strconv.Itoa(v)
		case fmt.Stringer:
			rec[field] = v.String()
		default:
			rec[field] = fmt.Sprint(v)
		}
	}
	return rec
}
