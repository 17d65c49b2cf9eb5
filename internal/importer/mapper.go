package importer

import (
	"sort"
	"strings"
)

// headerAliases maps a trimmed, lowercased header to its canonical field.
// English and French spellings are both covered.
var headerAliases = map[string]Field{
	// title
	"title": FieldTitle, "titre": FieldTitle, "name": FieldTitle, "nom": FieldTitle,
	"game": FieldTitle, "jeu": FieldTitle, "game title": FieldTitle, "titre du jeu": FieldTitle,
	"item": FieldTitle, "article": FieldTitle,
	// type
	"type": FieldType, "type d'achat": FieldType, "purchase type": FieldType, "kind": FieldType,
	// price
	"price": FieldPrice, "prix": FieldPrice, "amount": FieldPrice, "montant": FieldPrice,
	"cost": FieldPrice, "coût": FieldPrice, "cout": FieldPrice,
	// currency
	"currency": FieldCurrency, "devise": FieldCurrency, "monnaie": FieldCurrency,
	// platform
	"platform": FieldPlatform, "plateforme": FieldPlatform, "console": FieldPlatform,
	// genre
	"genre": FieldGenre, "style": FieldGenre,
	// store
	"store": FieldStore, "shop": FieldStore, "boutique": FieldStore, "magasin": FieldStore,
	"lieu d'achat": FieldStore, "vendor": FieldStore,
	// status
	"status": FieldStatus, "statut": FieldStatus, "état": FieldStatus, "etat": FieldStatus,
	// purchase date
	"date": FieldDate, "purchase date": FieldDate, "purchase_date": FieldDate,
	"date d'achat": FieldDate, "purchased": FieldDate,
	// notes
	"notes": FieldNotes, "note": FieldNotes, "comments": FieldNotes, "commentaires": FieldNotes,
	// parent game
	"parent game": FieldParentGame, "parent_game": FieldParentGame, "parent game name": FieldParentGame,
	"parent_game_name": FieldParentGame, "jeu parent": FieldParentGame,
}

// Column identifies one header cell that did not receive a field.
type Column struct {
	// Header is the header text exactly as read, untrimmed.
	Header string

	// DuplicateOf is set when the header named a field that an earlier
	// column already claimed.
	DuplicateOf Field

	Index int
}

// ColumnMapping assigns canonical fields to column positions.
// Each field is assigned to at most one position.
type ColumnMapping struct {
	Fields   map[int]Field
	Unmapped []Column
}

// MapColumns resolves a header row to canonical fields. Headers are trimmed
// and lowercased, then looked up exactly; there is no fuzzy matching. When
// two headers resolve to the same field the lower index wins and the later
// one is reported as unmapped.
func MapColumns(headers []string) ColumnMapping {
	mapping := ColumnMapping{Fields: make(map[int]Field, len(headers))}
	used := make(map[Field]bool, len(Fields))

	for i, header := range headers {
		field, ok := headerAliases[strings.ToLower(strings.TrimSpace(header))]
		switch {
		case !ok:
			mapping.Unmapped = append(mapping.Unmapped, Column{Index: i, Header: header})
		case used[field]:
			mapping.Unmapped = append(mapping.Unmapped, Column{Index: i, Header: header, DuplicateOf: field})
		default:
			mapping.Fields[i] = field
			used[field] = true
		}
	}

	return mapping
}

// Apply converts one data row to a Record, trimming every mapped value.
// Positions beyond the end of the row leave their field absent; extra
// trailing values are ignored.
func (m ColumnMapping) Apply(row RawRow) Record {
	rec := make(Record, len(m.Fields))
	for idx, field := range m.Fields {
		if idx >= len(row) {
			continue
		}
		rec[field] = strings.TrimSpace(row[idx])
	}
	return rec
}

// IndexOf returns the column position assigned to f.
func (m ColumnMapping) IndexOf(f Field) (int, bool) {
	for idx, field := range m.Fields {
		if field == f {
			return idx, true
		}
	}
	return 0, false
}

// MappedFields returns the assigned fields ordered by column position.
func (m ColumnMapping) MappedFields() []Field {
	indexes := make([]int, 0, len(m.Fields))
	for idx := range m.Fields {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	fields := make([]Field, 0, len(indexes))
	for _, idx := range indexes {
		fields = append(fields, m.Fields[idx])
	}
	return fields
}

// UnmappedHeaders returns the raw header text of every unmapped column.
func (m ColumnMapping) UnmappedHeaders() []string {
	headers := make([]string, 0, len(m.Unmapped))
	for _, col := range m.Unmapped {
		headers = append(headers, col.Header)
	}
	return headers
}
