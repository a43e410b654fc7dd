package server

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is fixed once the server starts.
type Config struct {
	Root    string // served and listed paths resolve under here
	Port    int
	Backlog int

	ReadTimeout  time.Duration // bounds waiting for the request line
	WriteTimeout time.Duration // bounds sending the response

	LogFile string // relative paths live under Root
	Console bool   // echo stream log entries to stdout

	// ExactContentLength makes directory and CGI responses advertise their
	// real body length.
	ExactContentLength bool
}

// DefaultConfig serves the working directory on port 2540.
func DefaultConfig() Config {
	return Config{
		Root:         ".",
		Port:         2540,
		Backlog:      6,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		LogFile:      "http-streams.txt",
		Console:      true,
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogPath is where the stream log is appended.
func (c Config) LogPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.Root, c.LogFile)
}

func (c Config) validate() error {
	if c.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.LogFile == "" {
		return fmt.Errorf("log file is required")
	}
	return nil
}
