package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/healthapp/internal/inbox"
)

// Config holds application configuration.
type Config struct {
	Log     LogConfig
	UI      UIConfig
	Inbox   InboxConfig
	Patient PatientConfig
}

// LogConfig controls the structured log output.
type LogConfig struct {
	Level string
	File  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string
}

// InboxConfig holds inbox behaviour settings.
type InboxConfig struct {
	Seed            bool
	SuggestDistance int `mapstructure:"suggest_distance"`
	Filter          string
}

// FilterMode returns the saved default filter. Load has already rejected
// unknown names.
func (c InboxConfig) FilterMode() inbox.FilterMode {
	mode, _ := inbox.ParseFilterMode(c.Filter)
	return mode
}

// PatientConfig describes the demo patient record.
type PatientConfig struct {
	Name         string
	PhoneNumbers []string `mapstructure:"phone_numbers"`
	BookingDays  int      `mapstructure:"booking_days"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.timezone", "Europe/London")
	v.SetDefault("inbox.seed", true)
	v.SetDefault("inbox.suggest_distance", 2)
	v.SetDefault("inbox.filter", "all")
	v.SetDefault("patient.name", "Mary")
	v.SetDefault("patient.phone_numbers", []string{"Mobile=07700 900123", "Home=020 7946 0123"})
	v.SetDefault("patient.booking_days", 5)
}

// Path returns the config file location: $HEALTHAPP_CONFIG when set,
// otherwise ~/.config/healthapp/config.toml.
func Path() string {
	if p := os.Getenv("HEALTHAPP_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "healthapp", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix HEALTHAPP_.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("HEALTHAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Inbox.SuggestDistance < 0 {
		return Config{}, fmt.Errorf("inbox.suggest_distance must not be negative, got %d", c.Inbox.SuggestDistance)
	}
	if _, err := inbox.ParseFilterMode(c.Inbox.Filter); err != nil {
		return Config{}, fmt.Errorf("inbox.filter: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("inbox.seed", cfg.Inbox.Seed)
	v.Set("inbox.suggest_distance", cfg.Inbox.SuggestDistance)
	v.Set("inbox.filter", cfg.Inbox.Filter)
	v.Set("patient.name", cfg.Patient.Name)
	v.Set("patient.phone_numbers", cfg.Patient.PhoneNumbers)
	v.Set("patient.booking_days", cfg.Patient.BookingDays)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Phones splits "Label=Number" entries. An entry without a label is labelled
// "Phone".
func (p PatientConfig) Phones() []Phone {
	out := make([]Phone, 0, len(p.PhoneNumbers))
	for _, raw := range p.PhoneNumbers {
		label, number, ok := strings.Cut(raw, "=")
		if !ok {
			label, number = "Phone", raw
		}
		number = strings.TrimSpace(number)
		if number == "" {
			continue
		}
		out = append(out, Phone{Label: strings.TrimSpace(label), Number: number})
	}
	return out
}

// Phone is one parsed contact number.
type Phone struct {
	Label  string
	Number string
}
