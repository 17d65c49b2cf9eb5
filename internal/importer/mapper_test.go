package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapColumns(t *testing.T) {
	tests := []struct {
		expectedFields   map[int]Field
		name             string
		headers          []string
		expectedUnmapped []string
	}{
		{
			name:    "english headers",
			headers: []string{"Title", "Price", "Currency", "Platform", "Purchase Date"},
			expectedFields: map[int]Field{
				0: FieldTitle, 1: FieldPrice, 2: FieldCurrency, 3: FieldPlatform, 4: FieldDate,
			},
			expectedUnmapped: []string{},
		},
		{
			name:    "french headers",
			headers: []string{"Jeu", "Prix", "Devise", "Plateforme", "Statut", "Date d'achat", "Boutique"},
			expectedFields: map[int]Field{
				0: FieldTitle, 1: FieldPrice, 2: FieldCurrency, 3: FieldPlatform,
				4: FieldStatus, 5: FieldDate, 6: FieldStore,
			},
			expectedUnmapped: []string{},
		},
		{
			name:             "case and surrounding whitespace ignored",
			headers:          []string{"  TITRE ", "pRiX"},
			expectedFields:   map[int]Field{0: FieldTitle, 1: FieldPrice},
			expectedUnmapped: []string{},
		},
		{
			name:             "unknown headers reported untrimmed",
			headers:          []string{"Name", " Rating ", "Hours played"},
			expectedFields:   map[int]Field{0: FieldTitle},
			expectedUnmapped: []string{" Rating ", "Hours played"},
		},
		{
			name:             "first of two title columns wins",
			headers:          []string{"Title", "Titre"},
			expectedFields:   map[int]Field{0: FieldTitle},
			expectedUnmapped: []string{"Titre"},
		},
		{
			name:             "no fuzzy matching",
			headers:          []string{"Titles", "Pric"},
			expectedFields:   map[int]Field{},
			expectedUnmapped: []string{"Titles", "Pric"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapping := MapColumns(tt.headers)
			assert.Equal(t, tt.expectedFields, mapping.Fields)
			assert.Equal(t, tt.expectedUnmapped, mapping.UnmappedHeaders())
		})
	}
}

func TestMapColumnsCollision(t *testing.T) {
	mapping := MapColumns([]string{"Title", "Titre"})

	idx, ok := mapping.IndexOf(FieldTitle)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	require.Len(t, mapping.Unmapped, 1)
	assert.Equal(t, Column{Index: 1, Header: "Titre", DuplicateOf: FieldTitle}, mapping.Unmapped[0])
}

func TestHeaderAliasesResolveToCanonicalFields(t *testing.T) {
	for alias, field := range headerAliases {
		t.Run(alias, func(t *testing.T) {
			mapping := MapColumns([]string{alias})
			assert.Equal(t, map[int]Field{0: field}, mapping.Fields)
		})
	}

	covered := make(map[Field]bool)
	for _, field := range headerAliases {
		covered[field] = true
	}
	for _, field := range Fields {
		assert.True(t, covered[field], "field %s has no header alias", field)
	}
}

func TestColumnMappingApply(t *testing.T) {
	mapping := MapColumns([]string{"Jeu", "Prix", "Devise", "Notes"})

	t.Run("values are trimmed", func(t *testing.T) {
		rec := mapping.Apply(RawRow{"  Hades ", " 24.99", "USD ", "  "})
		assert.Equal(t, Record{
			FieldTitle:    "Hades",
			FieldPrice:    "24.99",
			FieldCurrency: "USD",
			FieldNotes:    "",
		}, rec)
	})

	t.Run("short row leaves fields absent", func(t *testing.T) {
		rec := mapping.Apply(RawRow{"Hades"})
		assert.Equal(t, Record{FieldTitle: "Hades"}, rec)
		_, ok := rec[FieldPrice]
		assert.False(t, ok)
	})

	t.Run("extra values ignored", func(t *testing.T) {
		rec := mapping.Apply(RawRow{"Hades", "1", "EUR", "", "surplus"})
		assert.Len(t, rec, 4)
	})
}

func TestColumnMappingMappedFields(t *testing.T) {
	mapping := MapColumns([]string{"Notes", "Other", "Title", "Price"})
	assert.Equal(t, []Field{FieldNotes, FieldTitle, FieldPrice}, mapping.MappedFields())
}
