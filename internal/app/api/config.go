package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port     string
	CacheDir string
	// SQLitePath holds the metadata database; empty disables sqlite and the
	// process falls back to the in-memory metadata store.
	SQLitePath       string
	MetadataDisabled bool

	CDNSource         string
	CDNURL            string
	GitHubProxySource string
	GitHubProxy       string

	ExtraDates     []domain.CandidateDate
	ExtraDatesFile string

	NotFoundExpiry      time.Duration
	MetadataExpiry      time.Duration
	RequestTimeout      time.Duration
	MaxProbeDates       int
	ProbeConcurrency    int
	DateRefreshInterval time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		CacheDir:          envDefault("CACHE_DIR", "data"),
		MetadataDisabled:  isTruthy(os.Getenv("METADATA_DISABLED")),
		CDNSource:         strings.TrimSpace(os.Getenv("CDN_SOURCE")),
		CDNURL:            strings.TrimSpace(os.Getenv("CDN_URL")),
		GitHubProxySource: strings.TrimSpace(os.Getenv("GITHUB_PROXY_SOURCE")),
		GitHubProxy:       strings.TrimSpace(os.Getenv("GITHUB_PROXY")),
		ExtraDatesFile:    strings.TrimSpace(os.Getenv("EXTRA_DATES_FILE")),
	}
	cfg.SQLitePath = envDefault("SQLITE_PATH", filepath.Join(cfg.CacheDir, "metadata.sqlite3"))
	cfg.ExtraDates = ParseExtraDates(os.Getenv("EXTRA_DATES"))

	notfoundDays, err := positiveIntEnv("NOTFOUND_EXPIRE_DAYS", 7)
	if err != nil {
		return Config{}, err
	}
	cfg.NotFoundExpiry = time.Duration(notfoundDays) * 24 * time.Hour

	metadataDays, err := positiveIntEnv("METADATA_EXPIRE_DAYS", 7)
	if err != nil {
		return Config{}, err
	}
	cfg.MetadataExpiry = time.Duration(metadataDays) * 24 * time.Hour

	timeoutSeconds, err := positiveIntEnv("REQUEST_TIMEOUT_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	if cfg.MaxProbeDates, err = positiveIntEnv("MAX_PROBE_DATES", 10); err != nil {
		return Config{}, err
	}
	if cfg.ProbeConcurrency, err = positiveIntEnv("PROBE_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}

	refreshMinutes, err := positiveIntEnv("DATE_REFRESH_INTERVAL_MINUTES", 360)
	if err != nil {
		return Config{}, err
	}
	cfg.DateRefreshInterval = time.Duration(refreshMinutes) * time.Minute

	return cfg, nil
}

// ParseExtraDates reads newline-separated date strings, skipping anything
// that is not an 8-digit date.
func ParseExtraDates(raw string) []domain.CandidateDate {
	var dates []domain.CandidateDate
	for _, line := range strings.Split(raw, "\n") {
		date, err := domain.ParseCandidateDate(strings.TrimSpace(line))
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func positiveIntEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
