package config

import (
	"fmt"
	"time"
)

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// ValidationError describes a single invalid configuration value
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

// Panels holds the serial settings shared by both panels.
type Panels struct {
	LeftPort           string        `mapstructure:"left_port"`
	RightPort          string        `mapstructure:"right_port"`
	BaudRate           int           `mapstructure:"baud_rate"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	AllowMissingDevice bool          `mapstructure:"allow_missing_device"`
	Handshake          bool          `mapstructure:"handshake"`
	Brightness         int           `mapstructure:"brightness"`
}

// Schedule holds the periods of every periodic task.
type Schedule struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	DisplayInterval time.Duration `mapstructure:"display_interval"`
	LeftDelay       time.Duration `mapstructure:"left_delay"`
	SampleInterval  time.Duration `mapstructure:"sample_interval"`
	ShimmerFPS      int           `mapstructure:"shimmer_fps"`
	ColumnDelay     time.Duration `mapstructure:"column_delay"`
}

// Sources holds the paths of the kernel tables read by the gauges.
type Sources struct {
	ProcStat          string `mapstructure:"proc_stat"`
	ProcMeminfo       string `mapstructure:"proc_meminfo"`
	BatteryUevent     string `mapstructure:"battery_uevent"`
	ProcNetWireless   string `mapstructure:"proc_net_wireless"`
	WirelessInterface string `mapstructure:"wireless_interface"`
}
