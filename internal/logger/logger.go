// Package logger writes the standup log file and, when debugging, mirrors it
// to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/standup/internal/constants"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// std stays nil until Init so commands that never configure logging are quiet.
var std *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// Path returns the log file location under configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init points the package logger at a rotating file under cfg.ConfigDir.
func Init(cfg Config) error {
	out, err := openOutput(cfg)
	if err != nil {
		return err
	}
	std = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           cfg.level(),
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

func openOutput(cfg Config) (io.Writer, error) {
	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	if !cfg.Debug {
		return file, nil
	}
	return io.MultiWriter(os.Stderr, file), nil
}

// With returns a logger carrying keyvals on every line. Before Init it
// discards everything.
func With(keyvals ...interface{}) *log.Logger {
	if std == nil {
		return log.New(io.Discard)
	}
	return std.With(keyvals...)
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	if std == nil {
		return
	}
	std.Helper()
	std.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
