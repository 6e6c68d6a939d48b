// Released under an MIT license. See LICENSE.

// Package logutil provides the loggers used for internal diagnostics.
//
// Every package that logs holds its own logger, created once with a
// prefix naming the package. Loggers discard their output until SetOutput
// or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

//nolint:gochecknoglobals
var (
	out     io.Writer = io.Discard
	file    *os.File
	loggers []*log.Logger
	mu      sync.Mutex
)

// GetLogger returns a logger with the given prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	logger := log.New(out, prefix, log.LstdFlags|log.Lmicroseconds)
	loggers = append(loggers, logger)

	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	out = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetOutputFile redirects all loggers to the named file, appending to it.
// An empty path sends output back to the void.
func SetOutputFile(path string) error {
	var (
		f   *os.File
		err error
	)

	if path == "" {
		SetOutput(io.Discard)
	} else {
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}

		SetOutput(f)
	}

	mu.Lock()
	previous := file
	file = f
	mu.Unlock()

	if previous != nil {
		return previous.Close()
	}

	return nil
}
