// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
    "errors"
    "fmt"
    "io"
    "io/fs"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
    "github.com/sirupsen/logrus"
)

// Config holds settings shared by the server and the terminal game.
type Config struct {
    Addr      string
    LogLevel  string
    LogFormat string
    Seed      uint64
    Heartbeat time.Duration
}

func Default() Config {
    return Config{
        Addr:      ":8080",
        LogLevel:  "info",
        LogFormat: "text",
        Heartbeat: 15 * time.Second,
    }
}

// Load reads the given .env files (missing ones are skipped) and then the TTT_* variables.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
    if len(files) == 0 {
        files = []string{".env"}
    }
    for _, f := range files {
        if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
            return Config{}, fmt.Errorf("load %s: %w", f, err)
        }
    }
    return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
    c := Default()
    if v, ok := lookup("TTT_ADDR"); ok && v != "" {
        c.Addr = v
    }
    if v, ok := lookup("TTT_LOG_LEVEL"); ok && v != "" {
        c.LogLevel = strings.ToLower(v)
    }
    if v, ok := lookup("TTT_LOG_FORMAT"); ok && v != "" {
        c.LogFormat = strings.ToLower(v)
    }
    if v, ok := lookup("TTT_SEED"); ok && v != "" {
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return Config{}, fmt.Errorf("TTT_SEED: %w", err)
        }
        c.Seed = n
    }
    if v, ok := lookup("TTT_HEARTBEAT"); ok && v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return Config{}, fmt.Errorf("TTT_HEARTBEAT: %w", err)
        }
        c.Heartbeat = d
    }
    if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
        return Config{}, fmt.Errorf("TTT_LOG_LEVEL: %w", err)
    }
    if c.LogFormat != "text" && c.LogFormat != "json" {
        return Config{}, fmt.Errorf("TTT_LOG_FORMAT: unknown format %q", c.LogFormat)
    }
    return c, nil
}

// NewLogger builds a logger writing to w with the configured level and format.
func (c Config) NewLogger(w io.Writer) *logrus.Logger {
    l := logrus.New()
    l.SetOutput(w)
    if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
        l.SetLevel(lvl)
    }
    if c.LogFormat == "json" {
        l.SetFormatter(&logrus.JSONFormatter{})
    } else {
        l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    }
    return l
}
