package labelformat

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse parses a .label file from a byte slice
func Parse(data []byte) (*Label, error) {
	var label Label

	if err := json.Unmarshal(data, &label); err != nil {
		return nil, fmt.Errorf("failed to parse label: %w", err)
	}

	if err := Validate(&label); err != nil {
		return nil, err
	}

	return &label, nil
}

// ParseFile parses a .label file from disk
func ParseFile(path string) (*Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}

	return Parse(data)
}

// ToJSON converts a Label to JSON bytes
func (l *Label) ToJSON() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// SaveToFile saves a Label to a file
func (l *Label) SaveToFile(path string) error {
	data, err := l.ToJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
