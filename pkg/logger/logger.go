// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global logger of the REANA components.
// It discards everything until New, NewCliLogger or SetLogger is called.
var Log = logr.Discard()

// Config configures the created zap logger.
type Config struct {
	Development       bool
	Cli               bool
	Verbosity         int
	DisableStacktrace bool
	DisableCaller     bool
	DisableTimestamp  bool
}

var configFromFlags = Config{}

var developmentConfig = zap.Config{
	Level:             zap.NewAtomicLevelAt(zap.InfoLevel),
	Development:       true,
	Encoding:          "console",
	DisableStacktrace: false,
	DisableCaller:     false,
	EncoderConfig: zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	},
	OutputPaths:      []string{"stderr"},
	ErrorOutputPaths: []string{"stderr"},
}

var productionConfig = zap.Config{
	Level:             zap.NewAtomicLevelAt(zap.InfoLevel),
	Development:       false,
	DisableStacktrace: true,
	DisableCaller:     true,
	Encoding:          "json",
	EncoderConfig:     zap.NewProductionEncoderConfig(),
	OutputPaths:       []string{"stderr"},
	ErrorOutputPaths:  []string{"stderr"},
}

var cliConfig = zap.Config{
	Level:             zap.NewAtomicLevelAt(zap.InfoLevel),
	Development:       false,
	DisableStacktrace: true,
	DisableCaller:     true,
	Encoding:          "console",
	EncoderConfig: zapcore.EncoderConfig{
		TimeKey:        "",
		LevelKey:       "level",
		NameKey:        "",
		CallerKey:      "",
		MessageKey:     "msg",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	},
	OutputPaths:      []string{"stderr"},
	ErrorOutputPaths: []string{"stderr"},
}

// New creates a new logr logger backed by zap.
// The flag configuration is used if no config is given.
func New(config *Config) (logr.Logger, error) {
	if config == nil {
		config = &configFromFlags
	}
	zapCfg := determineZapConfig(config)

	level := int8(0 - config.Verbosity)
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(level))

	zapLog, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zapLog), nil
}

// NewCliLogger creates a logger from the flag configuration and sets it as the global logger.
func NewCliLogger() (logr.Logger, error) {
	log, err := New(nil)
	if err != nil {
		return logr.Discard(), err
	}
	SetLogger(log)
	return log, nil
}

// SetLogger replaces the global logger.
func SetLogger(log logr.Logger) {
	Log = log
}

func determineZapConfig(config *Config) zap.Config {
	var cfg zap.Config
	switch {
	case config.Development:
		cfg = developmentConfig
	case config.Cli:
		cfg = cliConfig
	default:
		cfg = productionConfig
	}

	cfg.DisableStacktrace = config.DisableStacktrace
	cfg.DisableCaller = config.DisableCaller
	if config.DisableTimestamp {
		cfg.EncoderConfig.TimeKey = ""
	}

	return cfg
}

// VerbosityFromLevel maps the REANA log level names to a logr verbosity.
// Unknown levels result in the default verbosity 1.
func VerbosityFromLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return 3
	case "INFO":
		return 1
	case "WARNING", "WARN", "ERROR", "CRITICAL":
		return 0
	}
	return 1
}

// InitFlags adds the logging flags to the given flagset.
// The default verbosity is derived from the REANA_LOG_LEVEL environment variable.
func InitFlags(flagset *flag.FlagSet) {
	if flagset == nil {
		flagset = flag.CommandLine
	}

	defaultVerbosity := 1
	if level, ok := os.LookupEnv("REANA_LOG_LEVEL"); ok {
		defaultVerbosity = VerbosityFromLevel(level)
	}

	flagset.BoolVar(&configFromFlags.Development, "dev", false, "enable development logging which result in console encoding, enabled stacktrace and enabled caller")
	flagset.BoolVar(&configFromFlags.Cli, "cli", true, "use cli formatted logging. This is ignored if dev is enabled")
	flagset.IntVarP(&configFromFlags.Verbosity, "verbosity", "v", defaultVerbosity, "number for the log level verbosity")
	flagset.BoolVar(&configFromFlags.DisableStacktrace, "disable-stacktrace", true, "disable the stacktrace of error logs")
	flagset.BoolVar(&configFromFlags.DisableCaller, "disable-caller", true, "disable the caller of logs")
	flagset.BoolVar(&configFromFlags.DisableTimestamp, "disable-timestamp", false, "disable timestamp output")
}
