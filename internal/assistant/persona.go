package assistant

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Persona is the assistant's configurable identity, loaded from
// ~/.pepper/assistant.yaml. Every field is optional.
type Persona struct {
	Name         string   `yaml:"name"`
	Language     string   `yaml:"language"`
	Style        string   `yaml:"style"`
	Instructions []string `yaml:"instructions"`
}

// DefaultPersona returns the built-in identity used when no persona file
// exists.
func DefaultPersona() Persona {
	return Persona{
		Name:     "Pepper",
		Language: "nl",
		Style:    "kort en direct",
	}
}

// personaPath allows tests to point the loader at a scratch file.
var personaPath = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}
	return filepath.Join(home, ".pepper", "assistant.yaml"), nil
}

// LoadPersona reads the persona file, falling back to the default when the
// file is missing. A corrupt file also falls back, with the parse error
// returned so the caller can log it.
func LoadPersona() (Persona, error) {
	path, err := personaPath()
	if err != nil {
		return DefaultPersona(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultPersona(), nil
	}
	if err != nil {
		return DefaultPersona(), fmt.Errorf("read persona: %w", err)
	}

	persona := DefaultPersona()
	if err := yaml.Unmarshal(data, &persona); err != nil {
		return DefaultPersona(), fmt.Errorf("parse persona: %w", err)
	}
	return persona, nil
}

// SavePersona writes the persona file, creating ~/.pepper when needed.
func SavePersona(p Persona) error {
	path, err := personaPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal persona: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
