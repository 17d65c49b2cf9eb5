// Package model defines the core domain models used throughout the application.
package model

// TransactionType is the kind of purchase.
type TransactionType string

// Transaction types.
const (
	TypeGame         TransactionType = "game"
	TypeDLC          TransactionType = "dlc"
	TypeSkin         TransactionType = "skin"
	TypeBattlePass   TransactionType = "battle_pass"
	TypeCurrency     TransactionType = "currency"
	TypeLootBox      TransactionType = "loot_box"
	TypeSubscription TransactionType = "subscription"
)

// Currency is an ISO code of a supported currency.
type Currency string

// Supported currencies.
const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
)

// Platform is where the game is played.
type Platform string

// Platforms.
const (
	PlatformPC         Platform = "PC"
	PlatformSteam      Platform = "Steam"
	PlatformPS5        Platform = "PS5"
	PlatformPS4        Platform = "PS4"
	PlatformSwitch     Platform = "Switch"
	PlatformXboxSeries Platform = "Xbox Series"
	PlatformXboxOne    Platform = "Xbox One"
	PlatformMobile     Platform = "Mobile"
)

// Genre of the purchased game.
type Genre string

// Genres.
const (
	GenreFPS             Genre = "FPS"
	GenreRPG             Genre = "RPG"
	GenreMOBA            Genre = "MOBA"
	GenreRacing          Genre = "Racing"
	GenreActionAdventure Genre = "Action-Adventure"
	GenreRoguelike       Genre = "Rogue-like"
	GenreSports          Genre = "Sports"
	GenreStrategy        Genre = "Strategy"
	GenreGacha           Genre = "Gacha"
	GenreCardGame        Genre = "Card Game"
	GenreSimulation      Genre = "Simulation"
	GenreHorror          Genre = "Horror"
	GenrePuzzle          Genre = "Puzzle"
	GenrePlatformer      Genre = "Platformer"
	GenreBattleRoyale    Genre = "Battle Royale"
	GenreOther           Genre = "Other"
)

// Status is the play state of the purchase.
type Status string

// Statuses.
const (
	StatusBacklog   Status = "Backlog"
	StatusPlaying   Status = "Playing"
	StatusCompleted Status = "Completed"
	StatusWishlist  Status = "Wishlist"
	StatusAbandoned Status = "Abandoned"
)

// Defaults substituted when a field is absent or unrecognized.
const (
	DefaultType     = TypeGame
	DefaultCurrency = CurrencyEUR
	DefaultPlatform = PlatformPC
	DefaultGenre    = GenreOther
	DefaultStatus   = StatusBacklog
)

// Valid values per enumeration, in display order.
var (
	TransactionTypes = []TransactionType{
		TypeGame, TypeDLC, TypeSkin, TypeBattlePass, TypeCurrency, TypeLootBox, TypeSubscription,
	}
	Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP, CurrencyJPY}
	Platforms  = []Platform{
		PlatformPC, PlatformSteam, PlatformPS5, PlatformPS4,
		PlatformSwitch, PlatformXboxSeries, PlatformXboxOne, PlatformMobile,
	}
	Genres = []Genre{
		GenreFPS, GenreRPG, GenreMOBA, GenreRacing, GenreActionAdventure,
		GenreRoguelike, GenreSports, GenreStrategy, GenreGacha, GenreCardGame,
		GenreSimulation, GenreHorror, GenrePuzzle, GenrePlatformer, GenreBattleRoyale, GenreOther,
	}
	Statuses = []Status{StatusBacklog, StatusPlaying, StatusCompleted, StatusWishlist, StatusAbandoned}
)
