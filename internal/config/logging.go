package config

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging routes the standard logger according to cfg. The returned
// closer flushes the log file and is a no-op for console output.
func SetupLogging(cfg Log) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	switch cfg.File {
	case "":
		log.SetOutput(os.Stderr)
		return nopCloser{}
	case "-":
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	if !cfg.Append {
		lj.Rotate()
	}

	if cfg.Console {
		log.SetOutput(io.MultiWriter(lj, os.Stderr))
	} else {
		log.SetOutput(lj)
	}
	return lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
