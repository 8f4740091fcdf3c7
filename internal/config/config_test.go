package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: t.TempDir()},
		List:   ListConfig{PageSize: 20},
	}
}

func TestValidate(t *testing.T) {
	cfg := validTestConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty environment", func(c *Config) { c.App.Environment = "" }},
		{"unknown environment", func(c *Config) { c.App.Environment = "testing" }},
		{"unknown log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"zero page size", func(c *Config) { c.List.PageSize = 0 }},
		{"negative page size", func(c *Config) { c.List.PageSize = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.Logger.Level = "DEBUG"
	if err := cfg.Validate(); err != nil {
		t.Errorf("uppercase level rejected: %v", err)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := validTestConfig(t)
	got := cfg.DatabasePath()
	if filepath.Base(got) != "inkwell.db" {
		t.Errorf("DatabasePath: got %q", got)
	}
	if filepath.Dir(got) != cfg.Data.BasePath {
		t.Errorf("DatabasePath dir: got %q, want %q", filepath.Dir(got), cfg.Data.BasePath)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}

	got, err := expandPath("", "/default/path")
	if err != nil || got != "/default/path" {
		t.Errorf("empty path: got %q, %v", got, err)
	}

	got, err = expandPath("~/inkwell", "")
	if err != nil {
		t.Fatalf("tilde path: %v", err)
	}
	if got != filepath.Join(home, "inkwell") {
		t.Errorf("tilde path: got %q", got)
	}

	got, err = expandPath("/abs/path", "")
	if err != nil || got != "/abs/path" {
		t.Errorf("absolute path: got %q, %v", got, err)
	}

	got, err = expandPath("relative/dir", "")
	if err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("relative path not made absolute: %q", got)
	}
}

func TestGetConfigValue(t *testing.T) {
	const key = "INKWELL_TEST_VALUE"
	t.Setenv(key, "from-env")

	if got := getConfigValue("from-flag", key, "default"); got != "from-flag" {
		t.Errorf("flag should win: got %q", got)
	}
	if got := getConfigValue("", key, "default"); got != "from-env" {
		t.Errorf("env should win over default: got %q", got)
	}

	os.Unsetenv(key)
	if got := getConfigValue("", key, "default"); got != "default" {
		t.Errorf("default: got %q", got)
	}
}

func TestGetIntConfigValue(t *testing.T) {
	const key = "INKWELL_TEST_INT"

	if got := getIntConfigValue("", key, 20); got != 20 {
		t.Errorf("default: got %d", got)
	}
	if got := getIntConfigValue("50", key, 20); got != 50 {
		t.Errorf("flag: got %d", got)
	}
	if got := getIntConfigValue("not-a-number", key, 20); got != 20 {
		t.Errorf("malformed value should fall back: got %d", got)
	}

	t.Setenv(key, "35")
	if got := getIntConfigValue("", key, 20); got != 35 {
		t.Errorf("env: got %d", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	content := strings.Join([]string{
		"# comment line",
		"",
		"INKWELL_TEST_A=alpha",
		`INKWELL_TEST_B="quoted value"`,
		"INKWELL_TEST_C='single quoted'",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("INKWELL_TEST_A")
		os.Unsetenv("INKWELL_TEST_B")
		os.Unsetenv("INKWELL_TEST_C")
	})

	if got := os.Getenv("INKWELL_TEST_A"); got != "alpha" {
		t.Errorf("A: got %q", got)
	}
	if got := os.Getenv("INKWELL_TEST_B"); got != "quoted value" {
		t.Errorf("B: got %q", got)
	}
	if got := os.Getenv("INKWELL_TEST_C"); got != "single quoted" {
		t.Errorf("C: got %q", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("INKWELL_TEST_KEEP=file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("INKWELL_TEST_KEEP", "process")
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("INKWELL_TEST_KEEP"); got != "process" {
		t.Errorf("existing env var overridden: got %q", got)
	}
}
