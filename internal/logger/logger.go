// Package logger initializes the global zerolog logger. The console writer
// goes to stderr so rendered command output on stdout stays clean; an
// optional rolling file keeps an audit trail of mutating commands.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log holds the logging configuration.
type Log struct {
	// Level is the minimum level to emit; empty means "info".
	Level string `toml:"level"`
	// Pretty enables the human-readable console writer.
	Pretty bool `toml:"pretty"`
	// File enables an additional rolling log file.
	File LogFile `toml:"file"`
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	Name       string `toml:"name"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
}

// Init the zerolog logger. Console output is always enabled; a rolling
// file is added when configured.
func Init(cfg Log) error {
	level := cfg.Level
	if level == "" {
		level = zerolog.LevelInfoValue
	}

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", cfg.Level)
	}

	zerolog.SetGlobalLevel(logLevel)

	writers := []io.Writer{newConsoleWriter(cfg)}

	if cfg.File.Enabled {
		if w := newRollingFile(cfg.File); w != nil {
			writers = append(writers, w)
		}
	}

	mw := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(mw).With().Timestamp().Logger()

	return nil
}

func newConsoleWriter(cfg Log) io.Writer {
	if cfg.Pretty {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    false,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return os.Stderr
}

// newRollingFile uses lumberjack to create a size-capped log file.
func newRollingFile(cfg LogFile) io.Writer {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
		log.Error().Err(err).Str("path", cfg.Path).Msg("can't create log directory")

		return nil
	}

	name := cfg.Name
	if name == "" {
		name = "ldapuser.log"
	}

	return &lumberjack.Logger{
		Filename:   path.Join(cfg.Path, name),
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  false,
		Compress:   false,
	}
}
