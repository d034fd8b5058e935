package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "LEDMATRIXCTL"
	DefaultConfigName = "ledmatrixctl.conf"
	DefaultConfigDir  = "/etc"
	DefaultLogLevel   = LogLevelInfo
	DefaultBrightness = 0x20
	DefaultInventory  = "/var/lib/ledmatrixctl/devices.db"
	profileFileName   = ".ledmatrix-profile"
	maxShimmerFPS     = 60
)

type Config struct {
	Panels      Panels   `mapstructure:",squash"`
	Schedule    Schedule `mapstructure:",squash"`
	Sources     Sources  `mapstructure:",squash"`
	ProfileFile string   `mapstructure:"profile_file"`
	Inventory   bool     `mapstructure:"inventory"`
	InventoryDB string   `mapstructure:"inventory_db"`
	LogLevel    string   `mapstructure:"log_level"`
}

// RegisterFlags adds every configuration flag to fs. Flag names use dashes,
// config keys use underscores.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a TOML configuration file")
	fs.String("log-level", string(DefaultLogLevel), "Log level: debug, info, warning, error")
	fs.String("left-port", "", "Serial device of the left panel")
	fs.String("right-port", "", "Serial device of the right panel")
	fs.Int("baud-rate", 0, "Serial baud rate")
	fs.Bool("allow-missing-device", false, "Run with a no-op link when a panel cannot be opened")
	fs.Bool("handshake", false, "Query the firmware version of each panel at startup")
	fs.Int("brightness", 0, "Panel brightness set at startup (0-255)")
	fs.String("profile-file", "", "Profile selector file")
	fs.Duration("poll-interval", 0, "Profile selector poll period")
	fs.Duration("display-interval", 0, "Per-side refresh period of the gauge profiles")
	fs.Int("shimmer-fps", 0, "Shimmer animation frame rate")
	fs.String("wireless-interface", "", "Wireless interface shown by the wifibattery profile")
	fs.Bool("inventory", false, "Record panel firmware versions in the inventory database")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("left_port", "/dev/ttyACM1")
	v.SetDefault("right_port", "/dev/ttyACM0")
	v.SetDefault("baud_rate", 115200)
	v.SetDefault("read_timeout", time.Second)
	v.SetDefault("allow_missing_device", false)
	v.SetDefault("handshake", false)
	v.SetDefault("brightness", DefaultBrightness)

	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("display_interval", 2*time.Second)
	v.SetDefault("left_delay", time.Second)
	v.SetDefault("sample_interval", time.Second)
	v.SetDefault("shimmer_fps", 5)
	v.SetDefault("column_delay", 2*time.Millisecond)

	v.SetDefault("proc_stat", "/proc/stat")
	v.SetDefault("proc_meminfo", "/proc/meminfo")
	v.SetDefault("battery_uevent", "/sys/class/power_supply/BAT1/uevent")
	v.SetDefault("proc_net_wireless", "/proc/net/wireless")
	v.SetDefault("wireless_interface", "wlp1s0")

	v.SetDefault("profile_file", defaultProfileFile())
	v.SetDefault("inventory", false)
	v.SetDefault("inventory_db", DefaultInventory)
	v.SetDefault("log_level", string(DefaultLogLevel))
}

func defaultProfileFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return profileFileName
	}

	return filepath.Join(home, profileFileName)
}

// Load reads the configuration from defaults, the config file, the
// environment and the flags in fs (which may be nil), in increasing
// order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			configPath = f.Value.String()
		}
	}

	v.SetConfigType("toml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(DefaultConfigDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if fs != nil {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, bindErr)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	config.ProfileFile = expandHome(config.ProfileFile)
	config.InventoryDB = expandHome(config.InventoryDB)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks ranges and enumerations of the loaded values.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	intervals := map[string]time.Duration{
		"poll_interval":    c.Schedule.PollInterval,
		"display_interval": c.Schedule.DisplayInterval,
		"sample_interval":  c.Schedule.SampleInterval,
	}
	for field, d := range intervals {
		if d <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval,
				ValidationError{Field: field, Value: d, Reason: "must be positive"})
		}
	}

	var invalid *ValidationError
	switch {
	case c.Schedule.LeftDelay < 0:
		invalid = &ValidationError{Field: "left_delay", Value: c.Schedule.LeftDelay, Reason: "must not be negative"}
	case c.Schedule.ColumnDelay < 0:
		invalid = &ValidationError{Field: "column_delay", Value: c.Schedule.ColumnDelay, Reason: "must not be negative"}
	case c.Schedule.ShimmerFPS < 1 || c.Schedule.ShimmerFPS > maxShimmerFPS:
		invalid = &ValidationError{Field: "shimmer_fps", Value: c.Schedule.ShimmerFPS, Reason: "must be between 1 and 60"}
	case c.Panels.BaudRate <= 0:
		invalid = &ValidationError{Field: "baud_rate", Value: c.Panels.BaudRate, Reason: "must be positive"}
	case c.Panels.Brightness < 0 || c.Panels.Brightness > 255:
		invalid = &ValidationError{Field: "brightness", Value: c.Panels.Brightness, Reason: "must be between 0 and 255"}
	case c.Panels.LeftPort == "" || c.Panels.RightPort == "":
		invalid = &ValidationError{Field: "left_port/right_port", Value: "", Reason: "must be set"}
	case c.ProfileFile == "":
		invalid = &ValidationError{Field: "profile_file", Value: "", Reason: "must be set"}
	case c.Inventory && c.InventoryDB == "":
		invalid = &ValidationError{Field: "inventory_db", Value: "", Reason: "must be set when inventory is enabled"}
	}
	if invalid != nil {
		return errFactory.WithData(errors.ErrInvalidConfig, *invalid)
	}

	return nil
}

// FrameTime is the interval between two shimmer frames.
func (s Schedule) FrameTime() time.Duration {
	return time.Second / time.Duration(s.ShimmerFPS)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
