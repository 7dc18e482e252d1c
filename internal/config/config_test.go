package config

import (
    "bytes"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
    return func(k string) (string, bool) {
        v, ok := m[k]
        return v, ok
    }
}

func TestDefaults(t *testing.T) {
    c, err := FromLookup(lookupFrom(nil))
    require.NoError(t, err)
    assert.Equal(t, Default(), c)
}

func TestOverrides(t *testing.T) {
    c, err := FromLookup(lookupFrom(map[string]string{
        "TTT_ADDR":       "127.0.0.1:9000",
        "TTT_LOG_LEVEL":  "DEBUG",
        "TTT_LOG_FORMAT": "json",
        "TTT_SEED":       "42",
        "TTT_HEARTBEAT":  "2s",
    }))
    require.NoError(t, err)
    assert.Equal(t, "127.0.0.1:9000", c.Addr)
    assert.Equal(t, "debug", c.LogLevel)
    assert.Equal(t, "json", c.LogFormat)
    assert.Equal(t, uint64(42), c.Seed)
    assert.Equal(t, 2*time.Second, c.Heartbeat)
}

func TestInvalidValues(t *testing.T) {
    for k, v := range map[string]string{
        "TTT_SEED":       "-1",
        "TTT_HEARTBEAT":  "soon",
        "TTT_LOG_LEVEL":  "chatty",
        "TTT_LOG_FORMAT": "xml",
    } {
        _, err := FromLookup(lookupFrom(map[string]string{k: v}))
        assert.Error(t, err, k)
    }
}

func TestLoadReadsDotEnv(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "test.env")
    require.NoError(t, os.WriteFile(path, []byte("TTT_SEED=99\n"), 0o600))
    t.Setenv("TTT_SEED", "")
    os.Unsetenv("TTT_SEED")

    c, err := Load(path, filepath.Join(dir, "missing.env"))
    require.NoError(t, err)
    assert.Equal(t, uint64(99), c.Seed)
}

func TestNewLogger(t *testing.T) {
    var buf bytes.Buffer
    c := Default()
    c.LogFormat = "json"
    c.LogLevel = "warn"
    l := c.NewLogger(&buf)
    assert.Equal(t, logrus.WarnLevel, l.GetLevel())
    l.Info("hidden")
    l.WithField("game_id", "g1").Warn("shown")
    assert.NotContains(t, buf.String(), "hidden")
    assert.Contains(t, buf.String(), `"game_id":"g1"`)
}
