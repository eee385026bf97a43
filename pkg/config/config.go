package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env and
// optionally a file).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	DB        DBConfig
	JWT       JWTConfig
	AI        AIConfig
	Retrieval RetrievalConfig
	Cache     CacheConfig
	Ingest    IngestConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string // comma-separated allowed origins
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig PostgreSQL settings. If DatabaseURL is non-empty it is used as the
// full connection string; otherwise the DSN is built from the parts.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString returns the DSN to use: DatabaseURL when set, otherwise DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a PostgreSQL connection string with URL encoding for special
// characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig token issuing settings. Access tokens live minutes; refresh
// tokens live days and are rotated on every refresh.
type JWTConfig struct {
	Secret           string
	Issuer           string
	AccessTTLMinutes int
	RefreshTTLDays   int
	CookieDomain     string
	CookieSecure     bool
}

// AccessTTL returns the access token lifetime.
func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// AIConfig provider credentials and models. A provider with an empty API key
// is skipped by the failover chain.
type AIConfig struct {
	// Comma-separated provider order for the LLM chain, e.g. "anthropic,gemini".
	LLMOrder string
	// Comma-separated provider order for the embedding chain, e.g. "gemini,openai".
	EmbeddingOrder string

	AnthropicAPIKey string
	AnthropicModel  string

	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string

	OpenAIAPIKey         string
	OpenAIEmbeddingModel string

	// Requests per second allowed against each provider; 0 disables limiting.
	RateLimitRPS float64
	// How long a failing provider stays out of rotation.
	CooldownSeconds int
}

// Cooldown returns the provider cooldown duration.
func (c AIConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// RetrievalConfig adaptive retrieval pipeline settings.
type RetrievalConfig struct {
	TopK           int
	MinSimilarity  float64
	TimeoutSeconds int
}

// Timeout returns the per-query pipeline timeout.
func (c RetrievalConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig query-result cache settings.
type CacheConfig struct {
	Size       int
	TTLSeconds int
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// IngestConfig background document ingestion settings.
type IngestConfig struct {
	Workers   int
	QueueSize int
	ChunkSize int
	Overlap   int
}

// Load reads configuration from environment variables (and optionally a .env
// file). Env vars take priority. Expected names: APP_ENV, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Optional .env file next to the binary.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "rag-fortress"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", "http://localhost:5173"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "rag_fortress"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:           getString(v, "JWT_SECRET", ""),
			Issuer:           getString(v, "JWT_ISSUER", "rag-fortress"),
			AccessTTLMinutes: getInt(v, "JWT_ACCESS_TTL_MINUTES", 15),
			RefreshTTLDays:   getInt(v, "JWT_REFRESH_TTL_DAYS", 7),
			CookieDomain:     getString(v, "JWT_COOKIE_DOMAIN", ""),
			CookieSecure:     getBool(v, "JWT_COOKIE_SECURE", false),
		},
		AI: AIConfig{
			LLMOrder:             getString(v, "AI_LLM_ORDER", "anthropic,gemini"),
			EmbeddingOrder:       getString(v, "AI_EMBEDDING_ORDER", "gemini,openai"),
			AnthropicAPIKey:      getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:       getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			GeminiAPIKey:         getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:          getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiEmbeddingModel: getString(v, "GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			OpenAIAPIKey:         getString(v, "OPENAI_API_KEY", ""),
			OpenAIEmbeddingModel: getString(v, "OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			RateLimitRPS:         getFloat(v, "AI_RATE_LIMIT_RPS", 5),
			CooldownSeconds:      getInt(v, "AI_COOLDOWN_SECONDS", 60),
		},
		Retrieval: RetrievalConfig{
			TopK:           getInt(v, "RETRIEVAL_TOP_K", 5),
			MinSimilarity:  getFloat(v, "RETRIEVAL_MIN_SIMILARITY", 0.25),
			TimeoutSeconds: getInt(v, "RETRIEVAL_TIMEOUT_SECONDS", 30),
		},
		Cache: CacheConfig{
			Size:       getInt(v, "CACHE_SIZE", 512),
			TTLSeconds: getInt(v, "CACHE_TTL_SECONDS", 300),
		},
		Ingest: IngestConfig{
			Workers:   getInt(v, "INGEST_WORKERS", 2),
			QueueSize: getInt(v, "INGEST_QUEUE_SIZE", 64),
			ChunkSize: getInt(v, "INGEST_CHUNK_SIZE", 1200),
			Overlap:   getInt(v, "INGEST_CHUNK_OVERLAP", 200),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			f, _ := strconv.ParseFloat(v.GetString(key), 64)
			return f
		default:
			return v.GetFloat64(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
