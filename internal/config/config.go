// internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Drive    DriveConfig
	Advisor  AdvisorConfig
	Extract  ExtractConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DatabaseConfig selects the backing store. Driver is one of "sqlite3",
// "postgres" (lib/pq) or "pgx".
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
}

type AppConfig struct {
	UploadDir string
	DataDir   string
}

type CacheConfig struct {
	Enabled         bool
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	AlertTTLSeconds int
}

// StorageConfig points at an S3-compatible bucket used to archive uploaded reports.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type AdvisorConfig struct {
	APIKey  string
	Model   string
	Persona string
}

// ExtractConfig holds the keyword tables used to pick monetary columns out of
// seller exports.
type ExtractConfig struct {
	RevenueKeywords   []string
	AdsKeywords       []string
	AdsExclusions     []string
	AdsSkipRows       int
	HeaderScanRows    int
	FirstRowTolerance float64
}

type PricingConfig struct {
	PlatformFeePct float64
	PackagingCost  float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		SetDefaults(v)

		// Read from environment variables
		v.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(v.GetString("APP_UPLOAD_DIR"))
		ensureDir(v.GetString("APP_DATA_DIR"))

		instance = FromViper(v)
	})

	return instance
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("DB_SQLITE_PATH", "./data/shopee_data.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tooltinhlai")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
	v.SetDefault("APP_DATA_DIR", "./data/output")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ALERT_TTL_SECONDS", 60)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "shopee-reports")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)

	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("ADVISOR_PERSONA", "")

	v.SetDefault("EXTRACT_REVENUE_KEYWORDS", []string{
		"total sales value", "sales value", "total amount", "revenue",
		"doanh thu", "doanh số",
	})
	v.SetDefault("EXTRACT_ADS_KEYWORDS", []string{"cost", "chi phí"})
	v.SetDefault("EXTRACT_ADS_EXCLUSIONS", []string{
		"conversion", "direct", "per-click", "per click", "roas",
		"chuyển đổi", "trực tiếp", "mỗi lượt nhấp",
	})
	v.SetDefault("EXTRACT_ADS_SKIP_ROWS", 7)
	v.SetDefault("EXTRACT_HEADER_SCAN_ROWS", 15)
	v.SetDefault("EXTRACT_FIRST_ROW_TOLERANCE", 0.10)

	v.SetDefault("PRICING_PLATFORM_FEE_PCT", 16.0)
	v.SetDefault("PRICING_PACKAGING_COST", 2000.0)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			UploadDir: v.GetString("APP_UPLOAD_DIR"),
			DataDir:   v.GetString("APP_DATA_DIR"),
		},
		Cache: CacheConfig{
			Enabled:         v.GetBool("CACHE_ENABLED"),
			RedisURL:        v.GetString("REDIS_URL"),
			RedisHost:       v.GetString("REDIS_HOST"),
			RedisPort:       v.GetString("REDIS_PORT"),
			RedisPassword:   v.GetString("REDIS_PASSWORD"),
			RedisDB:         v.GetInt("REDIS_DB"),
			AlertTTLSeconds: v.GetInt("CACHE_ALERT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        v.GetString("GOOGLE_DRIVE_FOLDER_ID"),
		},
		Advisor: AdvisorConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			Persona: v.GetString("ADVISOR_PERSONA"),
		},
		Extract: ExtractConfig{
			RevenueKeywords:   getList(v, "EXTRACT_REVENUE_KEYWORDS"),
			AdsKeywords:       getList(v, "EXTRACT_ADS_KEYWORDS"),
			AdsExclusions:     getList(v, "EXTRACT_ADS_EXCLUSIONS"),
			AdsSkipRows:       v.GetInt("EXTRACT_ADS_SKIP_ROWS"),
			HeaderScanRows:    v.GetInt("EXTRACT_HEADER_SCAN_ROWS"),
			FirstRowTolerance: v.GetFloat64("EXTRACT_FIRST_ROW_TOLERANCE"),
		},
		Pricing: PricingConfig{
			PlatformFeePct: v.GetFloat64("PRICING_PLATFORM_FEE_PCT"),
			PackagingCost:  v.GetFloat64("PRICING_PACKAGING_COST"),
		},
	}
}

// getList reads a list value that is either a []string default or a comma
// separated string coming from the environment.
func getList(v *viper.Viper, key string) []string {
	switch raw := v.Get(key).(type) {
	case string:
		return splitList([]string{raw})
	case []string:
		return splitList(raw)
	case []interface{}:
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return splitList(values)
	default:
		return nil
	}
}

// splitList flattens comma separated entries, since list values coming from
// the environment arrive as a single string.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
