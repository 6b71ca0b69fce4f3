package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. The area plan (bounding box, grid, filters) lives in a separate
// YAML file; see plan.go.
type Config struct {
	ScraperAPIBase string
	ScraperAPIKey  string
	ScraperRPS     int
	MarketplaceURL string

	MaxConcurrency int
	RateLimitMs    int
	JitterMs       int
	MaxRetries     int
	CellDelayMs    int

	OutputDir      string
	CSVOutputPath  string
	XLSXOutputPath string
	RawJSONPath    string
	URLListPath    string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SheetsCredentialsFile string
	SheetsFolderName      string
	SheetsShareEmail      string

	Verbose bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ScraperAPIBase: getEnv("SCRAPER_API_BASE", "http://localhost:8090"),
		ScraperAPIKey:  getEnv("SCRAPER_API_KEY", ""),
		ScraperRPS:     getEnvInt("SCRAPER_RPS", 2),
		MarketplaceURL: getEnv("MARKETPLACE_URL", "https://www.airbnb.com"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 3000),
		JitterMs:       getEnvInt("JITTER_MS", 5000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		CellDelayMs:    getEnvInt("CELL_DELAY_MS", 3000),

		OutputDir:      getEnv("OUTPUT_DIR", "./output"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/listings_analysis.csv"),
		XLSXOutputPath: getEnv("XLSX_OUTPUT_PATH", "./output/listings_analysis.xlsx"),
		RawJSONPath:    getEnv("RAW_JSON_PATH", "./output/search_results_all.json"),
		URLListPath:    getEnv("URL_LIST_PATH", "./output/listing_urls.txt"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listings_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "service_account.json"),
		SheetsFolderName:      getEnv("SHEETS_FOLDER_NAME", ""),
		SheetsShareEmail:      getEnv("SHEETS_SHARE_EMAIL", ""),

		Verbose: getEnvBool("VERBOSE", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// SheetsConfigured reports whether the Google Sheets export has a target
// folder and share address.
func (c *Config) SheetsConfigured() bool {
	return c.SheetsFolderName != "" && c.SheetsShareEmail != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
