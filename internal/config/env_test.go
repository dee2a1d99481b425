package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvParsesAssignments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment
OPENAI_API_KEY=sk-plain
export GEMINI_API_KEY="quoted value"
ANTHROPIC_API_KEY='single quoted'
not a valid line
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	LoadEnv(path)

	if got := os.Getenv("OPENAI_API_KEY"); got != "sk-plain" {
		t.Errorf("OPENAI_API_KEY = %q, want %q", got, "sk-plain")
	}
	if got := os.Getenv("GEMINI_API_KEY"); got != "quoted value" {
		t.Errorf("GEMINI_API_KEY = %q, want %q", got, "quoted value")
	}
	if got := os.Getenv("ANTHROPIC_API_KEY"); got != "single quoted" {
		t.Errorf("ANTHROPIC_API_KEY = %q, want %q", got, "single quoted")
	}
}

func TestLoadEnvIgnoresMissingFiles(t *testing.T) {
	// must not panic or error
	LoadEnv("", "/nonexistent/.env")
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`"double"`, `double`},
		{`'single'`, `single`},
		{`"with \"escape\""`, `with "escape"`},
		{`""`, ``},
	}
	for _, tt := range tests {
		if got := unquote(tt.in); got != tt.want {
			t.Errorf("unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
