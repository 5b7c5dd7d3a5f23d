package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"OSPFGraceRestart/internal/logger"
)

// TracingConfig controls OpenTelemetry span export for the GR lifecycle.
// Only the stdout exporter is supported: the subsystem owns no network
// transport of its own (see DESIGN.md).
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "none"
}

type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// MarkerConfig controls the persistent "I am restarting" marker (C2).
type MarkerConfig struct {
	// SysConfDir is the directory holding graceful_restart.conf.
	SysConfDir string `yaml:"sysConfDir"`
	// AdjustSystemClock names the reference daemon's legacy behavior of
	// forwarding the wall clock on marker read (spec.md §9 Open Question).
	// Default false. Setting it only produces a log line on marker read:
	// the system clock is never changed, and no LSA-age correction is
	// applied whether it is set or not. See SPEC_FULL.md C11.
	AdjustSystemClock bool `yaml:"adjustSystemClock"`
}

// GRConfig is the operator surface named in spec.md §6.
type GRConfig struct {
	RestartEnable   bool          `yaml:"restartEnable"`
	HelperEnable    bool          `yaml:"helperEnable"`
	GracePeriod     time.Duration `yaml:"gracePeriod"`
	StrictLSACheck  bool          `yaml:"strictLsaCheck"`
	RestartReason   int           `yaml:"restartReason"`
	MonitorInterval time.Duration `yaml:"monitorInterval"`
	DeadInterval    time.Duration `yaml:"deadInterval"`
	Marker          MarkerConfig  `yaml:"marker"`
}

type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	GR        GRConfig        `yaml:"gr"`
}

// LoadConfig loads the configuration from a YAML file at the given path.
//
// This performs only syntactic parsing; call cfg.Validate() afterward to
// check field-level constraints.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Supported overrides:
//
//	GR_RESTART_ENABLE      -> cfg.GR.RestartEnable
//	GR_HELPER_ENABLE       -> cfg.GR.HelperEnable
//	GR_GRACE_PERIOD        -> cfg.GR.GracePeriod (seconds)
//	GR_STRICT_LSA_CHECK    -> cfg.GR.StrictLSACheck
//	GR_RESTART_REASON      -> cfg.GR.RestartReason
//	GR_SYSCONFDIR          -> cfg.GR.Marker.SysConfDir
//	GR_ADJUST_SYSTEM_CLOCK -> cfg.GR.Marker.AdjustSystemClock
//	LOGGER_ENABLED         -> cfg.Logger.Active
//	LOGGER_LEVEL           -> cfg.Logger.Level
//	LOGGER_ENCODING        -> cfg.Logger.Encoding
//	LOGGER_MODE            -> cfg.Logger.Mode
//	LOGGER_FILE_PATH       -> cfg.Logger.File.Path
//	TRACE_ENABLED          -> cfg.Telemetry.Tracing.Enabled
//	TRACE_EXPORTER         -> cfg.Telemetry.Tracing.Exporter
func (cfg *Config) ApplyEnvOverrides() {
	if v, ok := os.LookupEnv("GR_RESTART_ENABLE"); ok {
		cfg.GR.RestartEnable = parseBool(v, cfg.GR.RestartEnable)
	}
	if v, ok := os.LookupEnv("GR_HELPER_ENABLE"); ok {
		cfg.GR.HelperEnable = parseBool(v, cfg.GR.HelperEnable)
	}
	if v, ok := os.LookupEnv("GR_GRACE_PERIOD"); ok {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.GR.GracePeriod = time.Duration(secs) * time.Second
		}
	}
	if v, ok := os.LookupEnv("GR_STRICT_LSA_CHECK"); ok {
		cfg.GR.StrictLSACheck = parseBool(v, cfg.GR.StrictLSACheck)
	}
	if v, ok := os.LookupEnv("GR_RESTART_REASON"); ok {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.GR.RestartReason = r
		}
	}
	if v, ok := os.LookupEnv("GR_SYSCONFDIR"); ok {
		cfg.GR.Marker.SysConfDir = v
	}
	if v, ok := os.LookupEnv("GR_ADJUST_SYSTEM_CLOCK"); ok {
		cfg.GR.Marker.AdjustSystemClock = parseBool(v, cfg.GR.Marker.AdjustSystemClock)
	}
	if v, ok := os.LookupEnv("LOGGER_ENABLED"); ok {
		cfg.Logger.Active = parseBool(v, cfg.Logger.Active)
	}
	if v, ok := os.LookupEnv("LOGGER_LEVEL"); ok {
		cfg.Logger.Level = v
	}
	if v, ok := os.LookupEnv("LOGGER_ENCODING"); ok {
		cfg.Logger.Encoding = v
	}
	if v, ok := os.LookupEnv("LOGGER_MODE"); ok {
		cfg.Logger.Mode = v
	}
	if v, ok := os.LookupEnv("LOGGER_FILE_PATH"); ok {
		cfg.Logger.File.Path = v
	}
	if v, ok := os.LookupEnv("TRACE_ENABLED"); ok {
		cfg.Telemetry.Tracing.Enabled = parseBool(v, cfg.Telemetry.Tracing.Enabled)
	}
	if v, ok := os.LookupEnv("TRACE_EXPORTER"); ok {
		cfg.Telemetry.Tracing.Exporter = v
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

// Validate checks field-level constraints. RFC 3623 caps the grace period
// at 1800 seconds; a restart reason outside {0,1,2,3} is rejected.
func (cfg *Config) Validate() error {
	if cfg.GR.GracePeriod <= 0 || cfg.GR.GracePeriod > 1800*time.Second {
		return fmt.Errorf("gr.gracePeriod must be in (0, 1800s], got %s", cfg.GR.GracePeriod)
	}
	if cfg.GR.RestartReason < 0 || cfg.GR.RestartReason > 3 {
		return fmt.Errorf("gr.restartReason must be in [0,3], got %d", cfg.GR.RestartReason)
	}
	if cfg.GR.MonitorInterval <= 0 {
		return fmt.Errorf("gr.monitorInterval must be positive, got %s", cfg.GR.MonitorInterval)
	}
	if cfg.GR.DeadInterval <= 0 {
		return fmt.Errorf("gr.deadInterval must be positive, got %s", cfg.GR.DeadInterval)
	}
	if cfg.GR.Marker.SysConfDir == "" {
		return fmt.Errorf("gr.marker.sysConfDir must not be empty")
	}
	switch cfg.Telemetry.Tracing.Exporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("telemetry.tracing.exporter must be \"stdout\" or \"none\", got %q", cfg.Telemetry.Tracing.Exporter)
	}
	return nil
}

// LogConfig logs the loaded configuration at debug level.
func (cfg *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("loaded configuration",
		logger.F("restartEnable", cfg.GR.RestartEnable),
		logger.F("helperEnable", cfg.GR.HelperEnable),
		logger.F("gracePeriod", cfg.GR.GracePeriod),
		logger.F("strictLsaCheck", cfg.GR.StrictLSACheck),
		logger.F("restartReason", cfg.GR.RestartReason),
		logger.F("monitorInterval", cfg.GR.MonitorInterval),
		logger.F("deadInterval", cfg.GR.DeadInterval),
		logger.F("sysConfDir", cfg.GR.Marker.SysConfDir),
		logger.F("adjustSystemClock", cfg.GR.Marker.AdjustSystemClock),
		logger.F("tracingEnabled", cfg.Telemetry.Tracing.Enabled),
	)
}
