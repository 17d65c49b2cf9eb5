package importer

import (
	"strings"
	"time"

	"github.com/Veraticus/lootlog/internal/model"
)

// ValidatedRow is one normalized transaction together with the issues found
// while building it. Warnings mean a default was substituted; errors make the
// row ineligible for commit.
type ValidatedRow struct {
	Data     model.Transaction
	Warnings []Issue
	Errors   []Issue
}

// Importable reports whether the row can be committed.
func (r ValidatedRow) Importable() bool {
	return len(r.Errors) == 0
}

// Validator normalizes records into transactions. Its notion of today is
// fixed at construction so that every row of a batch defaults to the same
// purchase date.
type Validator struct {
	today string
}

// NewValidator creates a validator whose default purchase date is now's
// calendar date.
func NewValidator(now time.Time) *Validator {
	return &Validator{today: now.Format(model.DateLayout)}
}

// Today returns the default purchase date.
func (v *Validator) Today() string {
	return v.today
}

// Validate produces exactly one ValidatedRow for rec. Every field is resolved
// independently, so a missing title never hides warnings on other fields.
func (v *Validator) Validate(rec Record) ValidatedRow {
	row := ValidatedRow{Data: model.DefaultTransaction(v.today)}
	data := &row.Data

	warn := func(field Field, reason Reason, raw string) {
		row.Warnings = append(row.Warnings, Issue{Field: field, Reason: reason, Value: raw})
	}

	data.Title = strings.TrimSpace(rec.Get(FieldTitle))
	if data.Title == "" {
		row.Errors = append(row.Errors, Issue{Field: FieldTitle, Reason: ReasonTitleRequired})
	}

	if raw, ok := present(rec, FieldType); ok {
		if t, found := ResolveType(raw); found {
			data.Type = t
		} else {
			warn(FieldType, ReasonUnknownType, raw)
		}
	}

	if raw, ok := present(rec, FieldPrice); ok {
		if price, err := ParsePrice(raw); err == nil {
			data.Price = price
		} else {
			warn(FieldPrice, ReasonInvalidPrice, raw)
		}
	}

	if raw, ok := present(rec, FieldCurrency); ok {
		if c, found := ResolveCurrency(raw); found {
			data.Currency = c
		} else {
			warn(FieldCurrency, ReasonUnknownCurrency, raw)
		}
	}

	if raw, ok := present(rec, FieldPlatform); ok {
		if p, found := ResolvePlatform(raw); found {
			data.Platform = p
		} else {
			warn(FieldPlatform, ReasonUnknownPlatform, raw)
		}
	}

	if raw, ok := present(rec, FieldGenre); ok {
		if g, found := ResolveGenre(raw); found {
			data.Genre = g
		} else {
			warn(FieldGenre, ReasonUnknownGenre, raw)
		}
	}

	if raw, ok := present(rec, FieldStatus); ok {
		if s, found := ResolveStatus(raw); found {
			data.Status = s
		} else {
			warn(FieldStatus, ReasonUnknownStatus, raw)
		}
	}

	if raw, ok := present(rec, FieldDate); ok {
		if date, err := ParseDate(raw); err == nil {
			data.PurchaseDate = date
		} else {
			warn(FieldDate, ReasonInvalidDate, raw)
		}
	}

	data.Store = strings.TrimSpace(rec.Get(FieldStore))
	data.Notes = strings.TrimSpace(rec.Get(FieldNotes))
	data.ParentGameName = strings.TrimSpace(rec.Get(FieldParentGame))

	return row
}

// ValidateAll validates records in order.
func (v *Validator) ValidateAll(records []Record) []ValidatedRow {
	rows := make([]ValidatedRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, v.Validate(rec))
	}
	return rows
}

// present returns the raw value of f when it holds more than whitespace.
// Blank values count as absent and never produce a warning.
func present(rec Record, f Field) (string, bool) {
	raw, ok := rec[f]
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}
