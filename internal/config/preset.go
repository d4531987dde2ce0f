package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/ficworld/internal/sim"
	"github.com/jwebster45206/ficworld/pkg/world"
)

// Preset describes one runnable simulation: a world, a cast, and run
// parameters. Presets live as YAML files under <dataDir>/presets.
type Preset struct {
	Name      string   `yaml:"name"`
	World     string   `yaml:"world"`
	Roles     []string `yaml:"roles"`
	Mode      string   `yaml:"mode"` // "free" or "script"
	MaxScenes int      `yaml:"max_scenes"`
	StyleHint string   `yaml:"style_hint,omitempty"`

	// LLM overrides the configured model name for this preset.
	LLM string `yaml:"llm,omitempty"`

	// Params holds the simulation heuristics. LoadPreset returns it
	// fully populated: fields absent from the file keep their
	// defaults.
	Params *sim.Params `yaml:"params,omitempty"`
}

// LoadPreset reads a preset by name from <dataDir>/presets/<name>.yaml.
func LoadPreset(dataDir, name string) (*Preset, error) {
	path := filepath.Join(dataDir, "presets", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %s: %w", name, err)
	}

	// Seed the params overlay with the defaults so a partial
	// params block overrides only the fields it names.
	defaults := sim.DefaultParams()
	p := Preset{Params: &defaults}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset %s: %w", name, err)
	}

	if p.World == "" {
		return nil, fmt.Errorf("preset %s names no world", name)
	}
	if len(p.Roles) == 0 {
		return nil, fmt.Errorf("preset %s names no roles", name)
	}
	if p.Mode == "" {
		p.Mode = "free"
	}
	if p.Mode != "free" && p.Mode != "script" {
		return nil, fmt.Errorf("preset %s has unknown mode %q", name, p.Mode)
	}
	if p.MaxScenes <= 0 {
		p.MaxScenes = 3
	}
	return &p, nil
}

// LoadWorld reads a world definition from <dataDir>/worlds/<name>.yaml.
func LoadWorld(dataDir, name string) (*world.WorldDefinition, error) {
	path := filepath.Join(dataDir, "worlds", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world %s: %w", name, err)
	}

	var def world.WorldDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse world %s: %w", name, err)
	}
	if len(def.Locations) == 0 {
		return nil, fmt.Errorf("world %s defines no locations", name)
	}
	return &def, nil
}

// LoadRole reads a role archetype from <dataDir>/roles/<name>.yaml.
func LoadRole(dataDir, name string) (*world.RoleArchetype, error) {
	path := filepath.Join(dataDir, "roles", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role %s: %w", name, err)
	}

	var role world.RoleArchetype
	if err := yaml.Unmarshal(data, &role); err != nil {
		return nil, fmt.Errorf("failed to parse role %s: %w", name, err)
	}
	if role.Name == "" {
		return nil, fmt.Errorf("role %s has no name", name)
	}
	if role.ActivityCoefficient <= 0 {
		role.ActivityCoefficient = 1.0
	}
	return &role, nil
}

// LoadRoles loads every role a preset names, preserving order.
func LoadRoles(dataDir string, names []string) ([]*world.RoleArchetype, error) {
	roles := make([]*world.RoleArchetype, 0, len(names))
	for _, name := range names {
		role, err := LoadRole(dataDir, name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
