// Package config handles environment-based configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
	"github.com/robfig/cron/v3"
)

// EnvConfig holds all environment-variable-driven settings.
type EnvConfig struct {
	// Directories
	DataDir string

	// Network
	ListenAddress   string
	Port            int
	APIMaxBodyBytes int

	// Tokens
	JWTSecret    string
	UserTokenTTL time.Duration
	SeatTokenTTL time.Duration

	// Accounts
	BcryptCost             int
	LoginMaxFailures       int
	LoginFailureWindow     time.Duration
	BootstrapAdminUsername string
	BootstrapAdminPassword string

	// Barcodes
	BarcodeSecret string

	// Audit log
	AuditQueueSize      int
	AuditFlushBatchSize int
	AuditFlushInterval  time.Duration

	// Caching
	EventCacheSize int
	EventCacheTTL  time.Duration

	// Maintenance
	MaintenanceSchedule string
}

// LoadEnvConfig reads environment variables and returns a validated EnvConfig.
// Returns an error if any required variable is missing or any value is invalid.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	var errs []string

	// --- Directories ---
	cfg.DataDir = envStr("COOKOFF_DATA_DIR", "/var/lib/cookoff")

	// --- Network ---
	cfg.ListenAddress = strings.TrimSpace(envStr("COOKOFF_LISTEN_ADDRESS", "0.0.0.0"))
	cfg.Port = envInt("COOKOFF_PORT", 8080, &errs)
	cfg.APIMaxBodyBytes = envInt("COOKOFF_API_MAX_BODY_BYTES", 1<<20, &errs)

	// --- Tokens ---
	cfg.JWTSecret = os.Getenv("COOKOFF_JWT_SECRET")
	cfg.UserTokenTTL = envDuration("COOKOFF_JWT_USER_TTL", 24*time.Hour, &errs)
	cfg.SeatTokenTTL = envDuration("COOKOFF_JWT_SEAT_TTL", 90*time.Minute, &errs)

	// --- Accounts ---
	cfg.BcryptCost = envInt("COOKOFF_BCRYPT_COST", 12, &errs)
	cfg.LoginMaxFailures = envInt("COOKOFF_LOGIN_MAX_FAILURES", 5, &errs)
	cfg.LoginFailureWindow = envDuration("COOKOFF_LOGIN_FAILURE_WINDOW", 15*time.Minute, &errs)
	cfg.BootstrapAdminUsername = strings.TrimSpace(envStr("COOKOFF_BOOTSTRAP_ADMIN_USERNAME", ""))
	cfg.BootstrapAdminPassword = envStr("COOKOFF_BOOTSTRAP_ADMIN_PASSWORD", "")

	// --- Barcodes ---
	cfg.BarcodeSecret = os.Getenv("COOKOFF_BARCODE_SECRET")

	// --- Audit log ---
	cfg.AuditQueueSize = envInt("COOKOFF_AUDIT_QUEUE_SIZE", 8192, &errs)
	cfg.AuditFlushBatchSize = envInt("COOKOFF_AUDIT_FLUSH_BATCH_SIZE", 512, &errs)
	cfg.AuditFlushInterval = envDuration("COOKOFF_AUDIT_FLUSH_INTERVAL", 2*time.Second, &errs)

	// --- Caching ---
	cfg.EventCacheSize = envInt("COOKOFF_EVENT_CACHE_SIZE", 256, &errs)
	cfg.EventCacheTTL = envDuration("COOKOFF_EVENT_CACHE_TTL", 30*time.Second, &errs)

	// --- Maintenance ---
	cfg.MaintenanceSchedule = envStr("COOKOFF_MAINTENANCE_SCHEDULE", "0 4 * * *")

	// --- Validation ---
	if cfg.DataDir == "" {
		errs = append(errs, "COOKOFF_DATA_DIR must not be empty")
	}
	if cfg.ListenAddress == "" {
		errs = append(errs, "COOKOFF_LISTEN_ADDRESS must not be empty")
	}
	validatePort("COOKOFF_PORT", cfg.Port, &errs)
	validatePositive("COOKOFF_API_MAX_BODY_BYTES", cfg.APIMaxBodyBytes, &errs)

	if cfg.JWTSecret == "" {
		errs = append(errs, "COOKOFF_JWT_SECRET must be set")
	} else {
		checkSecretEntropy("COOKOFF_JWT_SECRET", cfg.JWTSecret, &errs)
	}
	if cfg.UserTokenTTL <= 0 {
		errs = append(errs, "COOKOFF_JWT_USER_TTL must be positive")
	}
	if cfg.SeatTokenTTL <= 0 {
		errs = append(errs, "COOKOFF_JWT_SEAT_TTL must be positive")
	}

	// bcrypt rejects costs outside [4, 31].
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		errs = append(errs, fmt.Sprintf("COOKOFF_BCRYPT_COST: must be 4-31, got %d", cfg.BcryptCost))
	}
	validatePositive("COOKOFF_LOGIN_MAX_FAILURES", cfg.LoginMaxFailures, &errs)
	if cfg.LoginFailureWindow <= 0 {
		errs = append(errs, "COOKOFF_LOGIN_FAILURE_WINDOW must be positive")
	}
	if (cfg.BootstrapAdminUsername == "") != (cfg.BootstrapAdminPassword == "") {
		errs = append(errs, "COOKOFF_BOOTSTRAP_ADMIN_USERNAME and COOKOFF_BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	if cfg.BootstrapAdminPassword != "" {
		checkSecretEntropy("COOKOFF_BOOTSTRAP_ADMIN_PASSWORD", cfg.BootstrapAdminPassword, &errs)
	}

	if cfg.BarcodeSecret == "" {
		errs = append(errs, "COOKOFF_BARCODE_SECRET must be set")
	} else {
		checkSecretEntropy("COOKOFF_BARCODE_SECRET", cfg.BarcodeSecret, &errs)
	}

	validatePositive("COOKOFF_AUDIT_QUEUE_SIZE", cfg.AuditQueueSize, &errs)
	validatePositive("COOKOFF_AUDIT_FLUSH_BATCH_SIZE", cfg.AuditFlushBatchSize, &errs)
	if cfg.AuditFlushInterval <= 0 {
		errs = append(errs, "COOKOFF_AUDIT_FLUSH_INTERVAL must be positive")
	}

	// Queue size must be >= 2x batch size
	if cfg.AuditQueueSize < 2*cfg.AuditFlushBatchSize {
		errs = append(errs, "COOKOFF_AUDIT_QUEUE_SIZE must be at least 2x COOKOFF_AUDIT_FLUSH_BATCH_SIZE")
	}

	validatePositive("COOKOFF_EVENT_CACHE_SIZE", cfg.EventCacheSize, &errs)
	if cfg.EventCacheTTL <= 0 {
		errs = append(errs, "COOKOFF_EVENT_CACHE_TTL must be positive")
	}

	if _, err := cron.ParseStandard(cfg.MaintenanceSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("COOKOFF_MAINTENANCE_SCHEDULE: invalid cron expression %q: %v", cfg.MaintenanceSchedule, err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	return cfg, nil
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}

func validatePort(name string, value int, errs *[]string) {
	if value < 1 || value > 65535 {
		*errs = append(*errs, fmt.Sprintf("%s: port must be 1-65535, got %d", name, value))
	}
}

func validatePositive(name string, value int, errs *[]string) {
	if value <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s: must be positive, got %d", name, value))
	}
}

// checkSecretEntropy flags operator-chosen deployment secrets that an
// attacker could plausibly guess. zxcvbn scores 0-4; a signing secret or
// bootstrap password under 3 fails the load.
func checkSecretEntropy(name, value string, errs *[]string) {
	if zxcvbn.PasswordStrength(value, nil).Score < 3 {
		*errs = append(*errs, name+" is too weak; use a long random value")
	}
}
