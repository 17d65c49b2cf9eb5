package config

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/lootlog/internal/common"
	"github.com/Veraticus/lootlog/internal/importer"
	"github.com/Veraticus/lootlog/internal/llm"
)

// Defaults.
const (
	DefaultDatabasePath  = "~/.local/share/loot/loot.db"
	DefaultTokenFile     = "~/.config/loot/sheets-token.json"
	DefaultMaxFileBytes  = 5 << 20
	DefaultMaxTextChars  = llm.DefaultMaxInputChars
	DefaultLanguage      = "en"
	DefaultLLMMaxRetries = 3
	DefaultLLMTimeout    = 60 * time.Second
	DefaultUSDRate       = "0.92"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	DatabasePath   string
	OwnerID        string
	Language       string
	CommitStrategy importer.CommitStrategy
	LLM            llm.Config

	// USDRate converts USD to EUR in stats and budgets.
	USDRate      decimal.Decimal
	MaxFileBytes int64
	MaxTextChars int
}

// SetDefaults registers every default with viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("import.max_file_bytes", DefaultMaxFileBytes)
	v.SetDefault("import.max_text_chars", DefaultMaxTextChars)
	v.SetDefault("import.language", DefaultLanguage)
	v.SetDefault("import.commit_strategy", string(importer.CommitBulk))
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.max_retries", DefaultLLMMaxRetries)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("sheets.token_file", DefaultTokenFile)
	v.SetDefault("stats.usd_eur_rate", DefaultUSDRate)
}

// EnvPrefix prefixes every environment variable read by BindEnv.
const EnvPrefix = "LOOT"

// BindEnv makes every key readable from the environment. Nested keys use
// underscores, so database.path is LOOT_DATABASE_PATH.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads Settings from the global viper instance.
func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads Settings from v.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		OwnerID:      strings.TrimSpace(v.GetString("owner.id")),
		Language:     strings.TrimSpace(v.GetString("import.language")),
		MaxFileBytes: v.GetInt64("import.max_file_bytes"),
		MaxTextChars: v.GetInt("import.max_text_chars"),
		LLM: llm.Config{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			APIKey:        v.GetString("llm.api_key"),
			Model:         v.GetString("llm.model"),
			BaseURL:       v.GetString("llm.base_url"),
			MaxRetries:    v.GetInt("llm.max_retries"),
			Timeout:       v.GetDuration("llm.timeout"),
			MaxInputChars: v.GetInt("import.max_text_chars"),
		},
	}

	if s.DatabasePath == "" {
		s.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.MaxFileBytes <= 0 {
		return nil, fmt.Errorf("%w: import.max_file_bytes must be positive", common.ErrInvalidConfig)
	}
	if s.MaxTextChars <= 0 {
		return nil, fmt.Errorf("%w: import.max_text_chars must be positive", common.ErrInvalidConfig)
	}

	switch strategy := importer.CommitStrategy(strings.TrimSpace(v.GetString("import.commit_strategy"))); strategy {
	case "", importer.CommitBulk:
		s.CommitStrategy = importer.CommitBulk
	case importer.CommitPerRow:
		s.CommitStrategy = importer.CommitPerRow
	default:
		return nil, fmt.Errorf("%w: unknown commit strategy %q", common.ErrInvalidConfig, strategy)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("stats.usd_eur_rate")))
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("%w: stats.usd_eur_rate must be a positive number", common.ErrInvalidConfig)
	}
	s.USDRate = rate

	if s.LLM.APIKey == "" {
		s.LLM.APIKey = providerKeyFromEnv(s.LLM.Provider)
	}

	if s.OwnerID == "" {
		s.OwnerID = currentUser()
	}

	return s, nil
}

// providerKeyFromEnv falls back to the provider's conventional variable.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("ANTHROPIC_API_KEY")
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
