// README: Config loader: .env file, SIRPARCEL_* environment variables and defaults via viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sirparcel/internal/infra"
)

const (
	StoreFile     = infra.BackendFile
	StorePostgres = infra.BackendPostgres

	AIAuto   = "auto"
	AIGemini = "gemini"
	AIOpenAI = "openai"
	AINone   = "none"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Store struct {
		Backend string
		DataDir string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Session struct {
		Secret string
		Secure bool
		MaxAge time.Duration
	}
	AI struct {
		Provider      string
		Model         string
		GeminiKey     string
		OpenAIKey     string
		Timeout       time.Duration
		MonthlyTokens int
	}
	Maps struct {
		APIKey string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads envFiles (default ".env") if present, then the environment.
// A missing env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("SIRPARCEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.backend", StoreFile)
	v.SetDefault("data.dir", "data")
	v.SetDefault("db.dsn", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.max_age", "24h")
	v.SetDefault("ai.provider", AIAuto)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.monthly_tokens", 100)
	v.SetDefault("maps.api_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Provider keys keep their conventional unprefixed names.
	_ = v.BindEnv("ai.gemini_key", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.openai_key", "OPENAI_API_KEY")

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Store.Backend = strings.ToLower(v.GetString("store.backend"))
	cfg.Store.DataDir = v.GetString("data.dir")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Session.Secret = v.GetString("session.secret")
	cfg.Session.Secure = v.GetBool("session.secure")
	cfg.Session.MaxAge = v.GetDuration("session.max_age")
	cfg.AI.Provider = strings.ToLower(v.GetString("ai.provider"))
	cfg.AI.Model = v.GetString("ai.model")
	cfg.AI.GeminiKey = v.GetString("ai.gemini_key")
	cfg.AI.OpenAIKey = v.GetString("ai.openai_key")
	cfg.AI.Timeout = v.GetDuration("ai.timeout")
	cfg.AI.MonthlyTokens = v.GetInt("ai.monthly_tokens")
	cfg.Maps.APIKey = v.GetString("maps.api_key")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	if cfg.AI.Provider == AIAuto {
		cfg.AI.Provider = autoProvider(cfg.AI.GeminiKey, cfg.AI.OpenAIKey)
	}
	return cfg, cfg.Validate()
}

func autoProvider(geminiKey, openAIKey string) string {
	switch {
	case geminiKey != "":
		return AIGemini
	case openAIKey != "":
		return AIOpenAI
	default:
		return AINone
	}
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile:
		if c.Store.DataDir == "" {
			return errors.New("SIRPARCEL_DATA_DIR is required for the file store")
		}
	case StorePostgres:
		if c.DB.DSN == "" {
			return errors.New("SIRPARCEL_DB_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.AI.Provider {
	case AIGemini:
		if c.AI.GeminiKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case AIOpenAI:
		if c.AI.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case AINone:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return errors.New("SIRPARCEL_AI_TIMEOUT must be positive")
	}
	if c.AI.MonthlyTokens <= 0 {
		return errors.New("SIRPARCEL_AI_MONTHLY_TOKENS must be positive")
	}
	return nil
}
