// Package logutil provides the logging facility used across the module.
//
// Logging is off by default; a program enables it by calling SetOutput or
// SetOutputFile, typically behind a debug flag.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	loggers []*log.Logger
	out     io.Writer = io.Discard
	outFile *os.File
)

// Discard is a logger that discards all output.
var Discard = log.New(io.Discard, "", 0)

// GetLogger gets a logger with the given prefix. Its output target is managed
// by SetOutput and SetOutputFile.
func GetLogger(prefix string) *log.Logger {
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to the
// given writer. If the previous output was a file opened by SetOutputFile, it
// is closed.
func SetOutput(newout io.Writer) {
	closeOutFile()
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers to the named file. An
// empty name reverts to discarding all output.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	SetOutput(file)
	outFile = file
	return nil
}

func closeOutFile() {
	if outFile != nil {
		outFile.Close()
		outFile = nil
	}
}
