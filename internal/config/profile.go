package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend the console client talks to when no profile
// overrides it.
const DefaultBaseURL = "http://localhost:8080"

// DefaultNotificationInterval is how often notifications are refreshed.
const DefaultNotificationInterval = 30 * time.Second

// Profile is the console client's configuration file.
type Profile struct {
	BaseURL              string        `yaml:"base_url"`
	AdminToken           string        `yaml:"admin_token"`
	UserID               uint          `yaml:"user_id"`
	NotificationInterval time.Duration `yaml:"notification_interval"`
	OutboxInterval       time.Duration `yaml:"outbox_interval"`
}

// DefaultProfile returns the built-in client settings.
func DefaultProfile() Profile {
	return Profile{
		BaseURL:              DefaultBaseURL,
		NotificationInterval: DefaultNotificationInterval,
		OutboxInterval:       5 * time.Second,
	}
}

// LoadProfile reads a YAML profile from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if profile.BaseURL == "" {
		profile.BaseURL = DefaultBaseURL
	}
	if profile.NotificationInterval <= 0 {
		profile.NotificationInterval = DefaultNotificationInterval
	}
	if profile.OutboxInterval <= 0 {
		profile.OutboxInterval = 5 * time.Second
	}
	return profile, nil
}
