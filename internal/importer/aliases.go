package importer

import (
	"strings"

	"github.com/Veraticus/lootlog/internal/model"
)

// Alias tables map a lowercase synonym to its canonical value. They are
// consulted only after an exact case-insensitive match against the
// enumeration has failed.
var (
	typeAliases = map[string]model.TransactionType{
		"jeu": model.TypeGame, "jeux": model.TypeGame, "full game": model.TypeGame,
		"extension": model.TypeDLC, "add-on": model.TypeDLC, "addon": model.TypeDLC,
		"expansion": model.TypeDLC, "season pass": model.TypeDLC,
		"cosmetic": model.TypeSkin, "cosmétique": model.TypeSkin, "cosmetique": model.TypeSkin, "tenue": model.TypeSkin,
		"battle pass": model.TypeBattlePass, "battlepass": model.TypeBattlePass, "pass de combat": model.TypeBattlePass,
		"monnaie": model.TypeCurrency, "in-game currency": model.TypeCurrency, "monnaie in-game": model.TypeCurrency,
		"v-bucks": model.TypeCurrency, "gems": model.TypeCurrency, "coins": model.TypeCurrency,
		"loot box": model.TypeLootBox, "lootbox": model.TypeLootBox, "caisse": model.TypeLootBox, "coffre": model.TypeLootBox,
		"sub": model.TypeSubscription, "abonnement": model.TypeSubscription, "abo": model.TypeSubscription,
		"membership": model.TypeSubscription,
	}

	currencyAliases = map[string]model.Currency{
		"€": model.CurrencyEUR, "euro": model.CurrencyEUR, "euros": model.CurrencyEUR,
		"$": model.CurrencyUSD, "us$": model.CurrencyUSD, "dollar": model.CurrencyUSD, "dollars": model.CurrencyUSD,
		"£": model.CurrencyGBP, "pound": model.CurrencyGBP, "pounds": model.CurrencyGBP, "livre": model.CurrencyGBP,
		"livres": model.CurrencyGBP, "sterling": model.CurrencyGBP,
		"¥": model.CurrencyJPY, "yen": model.CurrencyJPY, "円": model.CurrencyJPY,
	}

	platformAliases = map[string]model.Platform{
		"windows": model.PlatformPC, "mac": model.PlatformPC, "macos": model.PlatformPC, "linux": model.PlatformPC,
		"ordinateur": model.PlatformPC, "ordi": model.PlatformPC,
		"steam deck": model.PlatformSteam, "steamdeck": model.PlatformSteam,
		"playstation 5": model.PlatformPS5, "playstation5": model.PlatformPS5, "ps 5": model.PlatformPS5,
		"playstation 4": model.PlatformPS4, "playstation4": model.PlatformPS4, "ps 4": model.PlatformPS4,
		"nintendo switch": model.PlatformSwitch, "nintendo": model.PlatformSwitch, "ns": model.PlatformSwitch,
		"xbox series x": model.PlatformXboxSeries, "xbox series s": model.PlatformXboxSeries,
		"xbox series x|s": model.PlatformXboxSeries, "xsx": model.PlatformXboxSeries, "xss": model.PlatformXboxSeries,
		"xone": model.PlatformXboxOne, "xb1": model.PlatformXboxOne,
		"ios": model.PlatformMobile, "android": model.PlatformMobile, "phone": model.PlatformMobile,
		"téléphone": model.PlatformMobile, "telephone": model.PlatformMobile, "smartphone": model.PlatformMobile,
		"iphone": model.PlatformMobile, "tablet": model.PlatformMobile, "tablette": model.PlatformMobile,
	}

	genreAliases = map[string]model.Genre{
		"shooter": model.GenreFPS, "tir": model.GenreFPS, "first person shooter": model.GenreFPS,
		"jeu de rôle": model.GenreRPG, "jeu de role": model.GenreRPG, "role playing": model.GenreRPG,
		"role-playing": model.GenreRPG, "jrpg": model.GenreRPG, "arpg": model.GenreRPG,
		"course": model.GenreRacing, "driving": model.GenreRacing,
		"action adventure": model.GenreActionAdventure, "action": model.GenreActionAdventure,
		"adventure": model.GenreActionAdventure, "aventure": model.GenreActionAdventure,
		"action-aventure": model.GenreActionAdventure,
		"roguelike": model.GenreRoguelike, "rogue like": model.GenreRoguelike, "roguelite": model.GenreRoguelike,
		"rogue-lite": model.GenreRoguelike,
		"sport": model.GenreSports,
		"stratégie": model.GenreStrategy, "strategie": model.GenreStrategy, "rts": model.GenreStrategy,
		"card game": model.GenreCardGame, "jeu de cartes": model.GenreCardGame, "cards": model.GenreCardGame,
		"cartes": model.GenreCardGame, "deckbuilder": model.GenreCardGame,
		"sim": model.GenreSimulation,
		"horreur": model.GenreHorror, "survival horror": model.GenreHorror,
		"réflexion": model.GenrePuzzle, "reflexion": model.GenrePuzzle,
		"plateforme": model.GenrePlatformer, "platform": model.GenrePlatformer, "plateformes": model.GenrePlatformer,
		"br": model.GenreBattleRoyale,
		"autre": model.GenreOther, "misc": model.GenreOther, "divers": model.GenreOther,
	}

	statusAliases = map[string]model.Status{
		"à jouer": model.StatusBacklog, "a jouer": model.StatusBacklog, "not started": model.StatusBacklog,
		"pas commencé": model.StatusBacklog, "pas commence": model.StatusBacklog, "todo": model.StatusBacklog,
		"en cours": model.StatusPlaying, "in progress": model.StatusPlaying, "started": model.StatusPlaying,
		"ongoing": model.StatusPlaying,
		"terminé": model.StatusCompleted, "termine": model.StatusCompleted, "fini": model.StatusCompleted,
		"done": model.StatusCompleted, "finished": model.StatusCompleted, "beaten": model.StatusCompleted,
		"liste de souhaits": model.StatusWishlist, "souhaité": model.StatusWishlist, "souhaite": model.StatusWishlist,
		"want": model.StatusWishlist, "wanted": model.StatusWishlist,
		"abandonné": model.StatusAbandoned, "abandonne": model.StatusAbandoned, "dropped": model.StatusAbandoned,
		"gave up": model.StatusAbandoned,
	}
)

// resolveAlias resolves raw against the valid values of one enumeration:
// an exact case-insensitive match first, then the alias table. The zero
// value and false are returned when neither matches or raw is blank.
func resolveAlias[T ~string](raw string, valid []T, aliases map[string]T) (T, bool) {
	var zero T

	s := strings.TrimSpace(raw)
	if s == "" {
		return zero, false
	}

	for _, v := range valid {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}

	if v, ok := aliases[strings.ToLower(s)]; ok {
		return v, true
	}
	return zero, false
}

// ResolveType resolves a purchase type such as "abonnement" or "DLC".
func ResolveType(raw string) (model.TransactionType, bool) {
	return resolveAlias(raw, model.TransactionTypes, typeAliases)
}

// ResolveCurrency resolves a currency code, symbol or word.
func ResolveCurrency(raw string) (model.Currency, bool) {
	return resolveAlias(raw, model.Currencies, currencyAliases)
}

// ResolvePlatform resolves a platform, OS or console name.
func ResolvePlatform(raw string) (model.Platform, bool) {
	return resolveAlias(raw, model.Platforms, platformAliases)
}

// ResolveGenre resolves an English or French genre name.
func ResolveGenre(raw string) (model.Genre, bool) {
	return resolveAlias(raw, model.Genres, genreAliases)
}

// ResolveStatus resolves an English or French play status.
func ResolveStatus(raw string) (model.Status, bool) {
	return resolveAlias(raw, model.Statuses, statusAliases)
}
