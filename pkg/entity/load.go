package entity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadEntity loads an entity document from a YAML file. Unlike the
// reference-data loaders, a missing entity file is an error: there is
// nothing permissive to fall back to when the party itself is absent.
func LoadEntity(path string) (*Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity file %q: %w", path, err)
	}
	var e Entity
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse entity file %q: %w", path, err)
	}
	if e.Name == "" {
		return nil, fmt.Errorf("entity file %q has no name", path)
	}
	return &e, nil
}

// LoadTransactionType loads a transaction-type definition from a YAML file.
func LoadTransactionType(path string) (*TransactionType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction type %q: %w", path, err)
	}
	var t TransactionType
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transaction type %q: %w", path, err)
	}
	return &t, nil
}
