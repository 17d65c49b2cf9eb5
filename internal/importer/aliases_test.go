package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/lootlog/internal/model"
)

// caseVariants returns s as given, lowercased, uppercased and padded.
func caseVariants(s string) []string {
	return []string{s, strings.ToLower(s), strings.ToUpper(s), "  " + s + "\t"}
}

func checkResolver[T ~string](t *testing.T, resolve func(string) (T, bool), valid []T, aliases map[string]T) {
	t.Helper()

	for _, v := range valid {
		for _, raw := range caseVariants(string(v)) {
			got, ok := resolve(raw)
			if assert.True(t, ok, "value %q", raw) {
				assert.Equal(t, v, got, "value %q", raw)
			}
		}
	}

	for alias, want := range aliases {
		assert.Contains(t, valid, want, "alias %q targets an unknown value", alias)
		for _, raw := range caseVariants(alias) {
			got, ok := resolve(raw)
			if assert.True(t, ok, "alias %q", raw) {
				assert.Equal(t, want, got, "alias %q", raw)
			}
		}
	}

	for _, raw := range []string{"", "   ", "definitely not a value"} {
		got, ok := resolve(raw)
		assert.False(t, ok, "value %q", raw)
		assert.Empty(t, got)
	}
}

func TestResolveType(t *testing.T) {
	checkResolver(t, ResolveType, model.TransactionTypes, typeAliases)
}

func TestResolveCurrency(t *testing.T) {
	checkResolver(t, ResolveCurrency, model.Currencies, currencyAliases)
}

func TestResolvePlatform(t *testing.T) {
	checkResolver(t, ResolvePlatform, model.Platforms, platformAliases)
}

func TestResolveGenre(t *testing.T) {
	checkResolver(t, ResolveGenre, model.Genres, genreAliases)
}

func TestResolveStatus(t *testing.T) {
	checkResolver(t, ResolveStatus, model.Statuses, statusAliases)
}

func TestResolveAliasExamples(t *testing.T) {
	tests := []struct {
		name     string
		resolve  func(string) (string, bool)
		raw      string
		expected string
	}{
		{"steam upper", wrap(ResolvePlatform), "STEAM", "Steam"},
		{"steam lower", wrap(ResolvePlatform), "steam", "Steam"},
		{"steam title", wrap(ResolvePlatform), "Steam", "Steam"},
		{"windows is pc", wrap(ResolvePlatform), "Windows", "PC"},
		{"abonnement", wrap(ResolveType), "abonnement", "subscription"},
		{"dlc upper", wrap(ResolveType), "DLC", "dlc"},
		{"euro symbol", wrap(ResolveCurrency), "€", "EUR"},
		{"dollar symbol", wrap(ResolveCurrency), "$", "USD"},
		{"pound symbol", wrap(ResolveCurrency), "£", "GBP"},
		{"yen symbol", wrap(ResolveCurrency), "¥", "JPY"},
		{"done", wrap(ResolveStatus), "done", "Completed"},
		{"termine accented", wrap(ResolveStatus), "Terminé", "Completed"},
		{"jeu de role", wrap(ResolveGenre), "Jeu de rôle", "RPG"},
		{"roguelike", wrap(ResolveGenre), "roguelike", "Rogue-like"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.resolve(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func wrap[T ~string](resolve func(string) (T, bool)) func(string) (string, bool) {
	return func(raw string) (string, bool) {
		v, ok := resolve(raw)
		return string(v), ok
	}
}
