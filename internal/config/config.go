package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	BaseURL          string // public base URL used in password-reset links
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	DBMaxOpenConns   int    // connection pool: max open connections
	DBMaxIdleConns   int    // connection pool: max idle connections
	DBConnMaxLifeMin int    // connection pool: max connection lifetime in minutes
	JWTSecret        string // secret used to sign JWTs
	AccessTTLMin     int    // access token time-to-live in minutes
	RefreshTTLDays   int    // refresh token time-to-live in days
	ResetTTLMin      int    // password-reset token time-to-live in minutes
	BcryptCost       int    // bcrypt cost for password hashing
	PhoneRegion      string // default ISO region for phone validation
	LoginPath        string // login route anonymous browsers are redirected to

	SMTPHost string // mail relay host (empty disables outgoing mail)
	SMTPPort string // mail relay port
	SMTPUser string // mail relay username
	SMTPPass string // mail relay password
	MailFrom string // From address on outgoing mail
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		BaseURL:          orDefault("APP_BASE_URL", "http://localhost:8080"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		DBMaxOpenConns:   intOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   intOrDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifeMin: intOrDefault("DB_CONN_MAX_LIFE_MIN", 30),
		JWTSecret:        must("JWT_SECRET"),
		AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"),
		ResetTTLMin:      intOrDefault("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:       mustInt("BCRYPT_COST"),
		PhoneRegion:      orDefault("PHONE_REGION", "KE"),
		LoginPath:        orDefault("LOGIN_PATH", "/accounts/login/"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         orDefault("SMTP_PORT", "587"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		MailFrom:         orDefault("MAIL_FROM", "noreply@resource-center.local"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func orDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
