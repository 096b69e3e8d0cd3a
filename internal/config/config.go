package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TIMEMANAGER_LOG_LEVEL.
const EnvPrefix = "TIMEMANAGER"

// Config holds the application configuration. It is separate from the
// user-facing settings.json, which only the store reads and writes.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Log      LogConfig      `mapstructure:"log"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// PathsConfig overrides the platform directories. Empty means platform default.
type PathsConfig struct {
	ConfigDir string `mapstructure:"config_dir"`
	DataDir   string `mapstructure:"data_dir"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=console json"`
	Output   string `mapstructure:"output" validate:"oneof=file stdout stderr none"`
	Filename string `mapstructure:"filename"`
}

// ScheduleConfig describes the weekly grid: SlotsPerDay slots of SlotMinutes
// each, starting at DayStartHour.
type ScheduleConfig struct {
	SlotMinutes  int `mapstructure:"slot_minutes" validate:"min=5,max=240"`
	DayStartHour int `mapstructure:"day_start_hour" validate:"min=0,max=23"`
	SlotsPerDay  int `mapstructure:"slots_per_day" validate:"min=1,max=288"`
}

// Load reads configuration from defaults, an optional config.yaml in the
// config directory, a .env file and TIMEMANAGER_* environment variables.
// defaultConfigDir is used when paths.config_dir is not set anywhere.
func Load(v *viper.Viper, defaultConfigDir string) (*Config, error) {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	configDir := v.GetString("paths.config_dir")
	if configDir == "" {
		configDir = defaultConfigDir
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Paths.ConfigDir == "" {
		cfg.Paths.ConfigDir = defaultConfigDir
	}
	if cfg.Log.Output == "file" && cfg.Log.Filename == "" {
		cfg.Log.Filename = filepath.Join(cfg.Paths.ConfigDir, "timemanager.log")
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.config_dir", "")
	v.SetDefault("paths.data_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.filename", "")

	v.SetDefault("schedule.slot_minutes", 30)
	v.SetDefault("schedule.day_start_hour", 8)
	v.SetDefault("schedule.slots_per_day", 20)
}

var validate = validator.New()

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	s := cfg.Schedule
	if s.DayStartHour*60+s.SlotMinutes*s.SlotsPerDay > 24*60 {
		return fmt.Errorf("schedule runs past midnight: %d slots of %d min from %02d:00",
			s.SlotsPerDay, s.SlotMinutes, s.DayStartHour)
	}
	return nil
}

// Default returns the built-in configuration without reading any source.
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Format: "console", Output: "none"},
		Schedule: ScheduleConfig{SlotMinutes: 30, DayStartHour: 8, SlotsPerDay: 20},
	}
}
