package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "dev-secret"

type Config struct {
	HTTPAddr                  string
	GRPCAddr                  string
	DatabaseURL               string
	DBMaxConns                int32
	DBQueryTimeout            time.Duration
	JWTSecret                 string
	JWTIssuer                 string
	AccessTokenTTL            time.Duration
	IssueTokenOnRegister      bool
	FrontendOrigins           []string
	RedisAddr                 string
	RedisPassword             string
	RatingCacheTTL            time.Duration
	ServiceAuthToken          string
	SeedUsersPath             string
	PendingReportsJobInterval time.Duration
	LogLevel                  string
	LogDevelopment            bool
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load() Config {
	_ = godotenv.Load(getenv("ENV_FILE", ".env"))

	return Config{
		HTTPAddr:                  httpAddr(),
		GRPCAddr:                  getenv("GRPC_ADDR", ":9095"),
		DatabaseURL:               databaseURL(),
		DBMaxConns:                int32(getenvInt("DB_MAX_CONNS", 10)),
		DBQueryTimeout:            getenvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		JWTSecret:                 getenv("JWT_SECRET", DefaultJWTSecret),
		JWTIssuer:                 getenv("JWT_ISSUER", "luct-reporting"),
		AccessTokenTTL:            getenvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		IssueTokenOnRegister:      getenvBool("AUTH_ISSUE_TOKEN_ON_REGISTER", false),
		FrontendOrigins:           frontendOrigins(),
		RedisAddr:                 getenv("REDIS_ADDR", ""),
		RedisPassword:             getenv("REDIS_PASSWORD", ""),
		RatingCacheTTL:            getenvDuration("RATING_CACHE_TTL", 5*time.Minute),
		ServiceAuthToken:          getenv("SERVICE_AUTH_TOKEN", ""),
		SeedUsersPath:             getenv("SEED_USERS_PATH", ""),
		PendingReportsJobInterval: getenvDuration("PENDING_REPORTS_JOB_INTERVAL", time.Minute),
		LogLevel:                  getenv("LOG_LEVEL", "info"),
		LogDevelopment:            getenvBool("LOG_DEVELOPMENT", false),
	}
}

// UsesDefaultJWTSecret reports whether tokens would be signed with the
// development secret because JWT_SECRET is unset.
func (c Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func httpAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":5000"
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete DB_* variables used by the hosted deployment.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := getenv("DB_HOST", "127.0.0.1")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", getenv("DB_USERNAME", "postgres"))
	password := getenv("DB_PASSWORD", "postgres")
	name := getenv("DB_NAME", "reporting")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=" + getenv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func frontendOrigins() []string {
	raw := getenv("FRONTEND_ORIGINS", getenv("FRONTEND_URL", "http://localhost:3000"))
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
