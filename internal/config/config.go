package config // package config loads application configuration from environment variables

import (
    "fmt"      // fmt wraps timezone errors
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strings"  // strings splits list-valued variables
    "time"     // time resolves the facility timezone

    "github.com/joho/godotenv" // godotenv loads an optional .env file into the environment
)

// Store drivers accepted by STORE_DRIVER.
const (
    StoreMySQL  = "mysql"
    StoreMemory = "memory"
)

// DefaultFacilityTimezone is the civil zone reservations are normalized into
// when FACILITY_TIMEZONE is not set.
const DefaultFacilityTimezone = "Asia/Tokyo"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  DB fields are only required when the MySQL
// store driver is selected.
type Config struct {
    Env              string   // application environment (e.g. "dev", "prod")
    Port             string   // HTTP port to listen on
    StoreDriver      string   // "mysql" or "memory"
    DBUser           string   // database username
    DBPass           string   // database password (optional)
    DBHost           string   // database host address
    DBPort           string   // database port number
    DBName           string   // database name
    FacilityTimezone string   // IANA zone name used to normalize reservation times
    LogLevel         string   // debug, info, warn or error
    LogFormat        string   // json or console
    CORSAllowOrigins []string // origins allowed by the CORS middleware
    SeedRooms        []string // room names inserted by the seed command
}

// Load reads an optional .env file and then builds a Config from the
// environment.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    lc := LoadLogConfig()
    cfg := Config{
        Env:              must("APP_ENV"),
        Port:             must("APP_PORT"),
        StoreDriver:      strings.ToLower(envStr("STORE_DRIVER", StoreMySQL)),
        FacilityTimezone: envStr("FACILITY_TIMEZONE", DefaultFacilityTimezone),
        LogLevel:         lc.Level,
        LogFormat:        lc.Format,
        CORSAllowOrigins: splitList(envStr("CORS_ALLOW_ORIGINS", "*")),
        SeedRooms:        splitList(os.Getenv("SEED_ROOMS")),
    }
    switch cfg.StoreDriver {
    case StoreMySQL:
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case StoreMemory:
    default:
        log.Fatalf("invalid STORE_DRIVER: %q", cfg.StoreDriver)
    }
    return cfg
}

// Location resolves FacilityTimezone.
func (c Config) Location() (*time.Location, error) {
    loc, err := time.LoadLocation(c.FacilityTimezone)
    if err != nil {
        return nil, fmt.Errorf("load facility timezone %q: %w", c.FacilityTimezone, err)
    }
    return loc, nil
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}

// LogConfig is the subset of the configuration needed to build a logger.
// Commands that never touch the database, like the audit worker, load only
// this.
type LogConfig struct {
    Level  string
    Format string
}

// LoadLogConfig reads an optional .env file and then LOG_LEVEL and
// LOG_FORMAT.
func LoadLogConfig() LogConfig {
    _ = godotenv.Load() // a missing .env file is not an error
    return LogConfig{
        Level:  envStr("LOG_LEVEL", "info"),
        Format: envStr("LOG_FORMAT", "json"),
    }
}
