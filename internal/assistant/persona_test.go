package assistant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pointPersonaAt redirects the persona file to a scratch path for one test.
func pointPersonaAt(t *testing.T, path string) {
	t.Helper()
	orig := personaPath
	personaPath = func() (string, error) { return path, nil }
	t.Cleanup(func() { personaPath = orig })
}

func TestLoadPersonaMissing(t *testing.T) {
	pointPersonaAt(t, filepath.Join(t.TempDir(), "assistant.yaml"))

	p, err := LoadPersona()
	if err != nil {
		t.Fatalf("LoadPersona failed: %v", err)
	}
	if p.Name != "Pepper" || p.Language != "nl" {
		t.Errorf("missing file should yield the default persona, got %+v", p)
	}
}

func TestPersonaRoundTrip(t *testing.T) {
	pointPersonaAt(t, filepath.Join(t.TempDir(), "assistant.yaml"))

	want := Persona{
		Name:         "Vrijdag",
		Language:     "en",
		Style:        "formeel",
		Instructions: []string{"eindig elk antwoord met een vraag"},
	}
	if err := SavePersona(want); err != nil {
		t.Fatalf("SavePersona failed: %v", err)
	}

	got, err := LoadPersona()
	if err != nil {
		t.Fatalf("LoadPersona failed: %v", err)
	}
	if got.Name != want.Name || got.Language != want.Language || got.Style != want.Style {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Instructions) != 1 || got.Instructions[0] != want.Instructions[0] {
		t.Errorf("instructions = %v, want %v", got.Instructions, want.Instructions)
	}
}

func TestLoadPersonaPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	pointPersonaAt(t, path)
	if err := os.WriteFile(path, []byte("name: Jarvis\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPersona()
	if err != nil {
		t.Fatalf("LoadPersona failed: %v", err)
	}
	if p.Name != "Jarvis" {
		t.Errorf("Name = %q, want %q", p.Name, "Jarvis")
	}
	if p.Language != "nl" || p.Style != "kort en direct" {
		t.Errorf("unset fields should keep defaults, got %+v", p)
	}
}

func TestLoadPersonaCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	pointPersonaAt(t, path)
	if err := os.WriteFile(path, []byte("{not: [valid"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPersona()
	if err == nil {
		t.Fatal("expected a parse error for corrupt yaml")
	}
	if !strings.Contains(err.Error(), "parse persona") {
		t.Errorf("error = %v, want a parse persona error", err)
	}
	if p.Name != "Pepper" {
		t.Errorf("corrupt file should fall back to the default persona, got %+v", p)
	}
}
