package timeline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Write writes a timeline to a YAML file
func Write(tl *Timeline, path string) error {
	data, err := yaml.Marshal(tl)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads a timeline from a YAML file and validates it
func Read(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, err
	}

	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return &tl, nil
}
