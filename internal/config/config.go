package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// History backends
const (
	HistoryNeo4j    = "neo4j"
	HistoryPostgres = "postgres"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	Timezone string // day boundaries of market summaries

	FranceTravail struct {
		ClientID     string
		ClientSecret string
	} // ROME occupation API credentials
	LBA struct {
		APIKey string
		Caller string
	}
	WTTJ struct {
		AppID  string
		APIKey string
		Index  string
	}
	Redis struct {
		URL string
	}
	History struct {
		Backend string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
	}
	Postgres struct {
		URL string
	}
	Sheets struct {
		CredentialsPath string // empty disables the export tool
	}
	Refresh struct {
		Schedule   string // empty disables the refresh scheduler
		Categories []string
		Latitude   float64
		Longitude  float64
		RadiusKm   int
		AreaCode   string
	}
	PersistTimeout time.Duration
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:       "info",
		Host:           "0.0.0.0",
		Port:           "8080",
		Timezone:       "Europe/Paris",
		PersistTimeout: 30 * time.Second,
	}
	cfg.LBA.Caller = "jobnexus"
	cfg.WTTJ.Index = "wttj_jobs_production_fr"
	cfg.History.Backend = HistoryNeo4j
	cfg.Refresh.Latitude = 48.8566
	cfg.Refresh.Longitude = 2.3522
	cfg.Refresh.RadiusKm = 30
	cfg.Refresh.AreaCode = "75056"

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Host, "MCP_HOST")
	setString(&cfg.Port, "PORT")
	setString(&cfg.Timezone, "TIMEZONE")

	cfg.FranceTravail.ClientID = os.Getenv("FT_CLIENT_ID")
	cfg.FranceTravail.ClientSecret = os.Getenv("FT_CLIENT_SECRET")

	cfg.LBA.APIKey = os.Getenv("LBA_API_KEY")
	setString(&cfg.LBA.Caller, "LBA_CALLER")

	cfg.WTTJ.AppID = os.Getenv("WTTJ_APP_ID")
	cfg.WTTJ.APIKey = os.Getenv("WTTJ_API_KEY")
	setString(&cfg.WTTJ.Index, "WTTJ_INDEX")

	cfg.Redis.URL = os.Getenv("REDIS_URL")

	if v := os.Getenv("HISTORY_BACKEND"); v != "" {
		cfg.History.Backend = strings.ToLower(v)
	}
	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Postgres.URL = os.Getenv("DATABASE_URL")

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	cfg.Refresh.Schedule = os.Getenv("REFRESH_SCHEDULE")
	if v := os.Getenv("REFRESH_CATEGORIES"); v != "" {
		cfg.Refresh.Categories = splitList(v)
	}
	setString(&cfg.Refresh.AreaCode, "REFRESH_AREA_CODE")

	var invalid []string
	if err := setFloat(&cfg.Refresh.Latitude, "REFRESH_LATITUDE"); err != nil {
		invalid = append(invalid, err.Error())
	}
	if err := setFloat(&cfg.Refresh.Longitude, "REFRESH_LONGITUDE"); err != nil {
		invalid = append(invalid, err.Error())
	}
	if v := os.Getenv("REFRESH_RADIUS_KM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			invalid = append(invalid, fmt.Sprintf("REFRESH_RADIUS_KM=%q", v))
		} else {
			cfg.Refresh.RadiusKm = n
		}
	}
	if v := os.Getenv("PERSIST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, fmt.Sprintf("PERSIST_TIMEOUT=%q", v))
		} else {
			cfg.PersistTimeout = d
		}
	}
	if cfg.History.Backend != HistoryNeo4j && cfg.History.Backend != HistoryPostgres {
		invalid = append(invalid, fmt.Sprintf("HISTORY_BACKEND=%q", cfg.History.Backend))
	}
	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missingVars []string
	require := func(value, name string) {
		if value == "" {
			missingVars = append(missingVars, name)
		}
	}

	require(cfg.FranceTravail.ClientID, "FT_CLIENT_ID")
	require(cfg.FranceTravail.ClientSecret, "FT_CLIENT_SECRET")
	require(cfg.WTTJ.AppID, "WTTJ_APP_ID")
	require(cfg.WTTJ.APIKey, "WTTJ_API_KEY")
	require(cfg.Redis.URL, "REDIS_URL")

	switch cfg.History.Backend {
	case HistoryNeo4j:
		require(cfg.Neo4j.URI, "NEO4J_URI")
		require(cfg.Neo4j.Username, "NEO4J_USERNAME")
		require(cfg.Neo4j.Password, "NEO4J_PASSWORD")
	case HistoryPostgres:
		require(cfg.Postgres.URL, "DATABASE_URL")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s=%q", key, v)
	}
	*dst = f
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
