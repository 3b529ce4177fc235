package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile_NonexistentFile(t *testing.T) {
	if err := LoadEnvFile("/nonexistent/.env"); err != nil {
		t.Fatalf("expected nil for nonexistent file, got %v", err)
	}
}

func TestLoadEnvFile_SetsOnlyUnsetVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	content := "# git override\n\nGITINFO_TEST_A=hello\nexport GITINFO_TEST_B='from file'\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GITINFO_TEST_A", "")
	_ = os.Unsetenv("GITINFO_TEST_A") //nolint:errcheck
	t.Setenv("GITINFO_TEST_B", "from env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("GITINFO_TEST_A"); got != "hello" {
		t.Errorf("GITINFO_TEST_A = %q, want %q", got, "hello")
	}
	if got := os.Getenv("GITINFO_TEST_B"); got != "from env" {
		t.Errorf("GITINFO_TEST_B = %q, want %q (env should take precedence)", got, "from env")
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line    string
		wantKey string
		wantVal string
		wantOK  bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"KEY=\"quoted value\"", "KEY", "quoted value", true},
		{"KEY='single quoted'", "KEY", "single quoted", true},
		{"KEY='mismatched\"", "KEY", "'mismatched\"", true},
		{"export KEY=value", "KEY", "value", true},
		{"  KEY = value  ", "KEY", "value", true},
		{"KEY=a=b", "KEY", "a=b", true},
		{"no-equals-sign", "", "", false},
		{"=no-key", "", "", false},
	}

	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.wantOK || key != tt.wantKey || val != tt.wantVal {
			t.Errorf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, key, val, ok, tt.wantKey, tt.wantVal, tt.wantOK)
		}
	}
}
