package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration read from the environment.
type Settings struct {
	Port     string
	DBPath   string
	Language string
	Refresh  time.Duration
	// Reminder is an ISO 8601 duration used as VALARM trigger (e.g. "-PT1H").
	// Empty disables alarms in the exported calendar.
	Reminder string
	APIURL   string
	APIUser  string

	// refreshErr keeps a malformed DVENKI_REFRESH for Validate.
	refreshErr error
}

// LoadSettings reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func LoadSettings(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ErrEnvFile, err)
		}
	}

	refresh, refreshErr := getEnvDuration(EnvRefresh, DefaultRefresh)
	return &Settings{
		Port:       getEnv(EnvPort, DefaultPort),
		DBPath:     getEnv(EnvDBPath, defaultDBPath()),
		Language:   getEnv(EnvLang, DefaultLanguage),
		Refresh:    refresh,
		Reminder:   getEnv(EnvReminder, ""),
		APIURL:     getEnv(EnvAPIURL, ""),
		APIUser:    getEnv(EnvAPIUser, DefaultAPIUser),
		refreshErr: refreshErr,
	}, nil
}

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var errs []error

	if err := ValidatePort(s.Port); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrLangUnsupported, s.Language))
	}
	switch {
	case s.refreshErr != nil:
		errs = append(errs, s.refreshErr)
	case s.Refresh <= 0:
		errs = append(errs, errors.New(ErrRefreshInterval))
	}
	if s.Reminder != "" && !strings.HasPrefix(s.Reminder, ISODurationNeg) && !strings.HasPrefix(s.Reminder, ISODurationPos) {
		errs = append(errs, fmt.Errorf("%s: %q", ErrReminderFormat, s.Reminder))
	}

	return errors.Join(errs...)
}

// ValidatePort checks that a port string is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %q", ErrPortNumber, port)
	}
	if n < MinPort || n > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, n)
	}
	return nil
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DBFileName
	}
	return filepath.Join(dir, AppID, DBFileName)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvDuration returns fallback for an unset variable and an error for
// one that does not parse.
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q", ErrRefreshInterval, v)
	}
	return d, nil
}
