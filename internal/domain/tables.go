package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Tables holds the static lookup data used during location reconciliation.
// A Tables value is read-only once loaded.
type Tables struct {
	CountryCorrections map[string]string `yaml:"country_corrections"`
	StateNames         map[string]string `yaml:"state_names"`
}

// DefaultTables returns the lookup tables compiled into the binary.
func DefaultTables() *Tables {
	t, err := decodeTables(defaultTablesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lookup tables: %v", err))
	}
	return t
}

// LoadTables decodes lookup tables from YAML.
func LoadTables(r io.Reader) (*Tables, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read lookup tables: %w", err)
	}
	return decodeTables(buf)
}

// LoadTablesFile reads lookup tables from path, or returns the embedded
// defaults when path is empty.
func LoadTablesFile(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookup tables: %w", err)
	}
	defer f.Close()
	return LoadTables(f)
}

func decodeTables(buf []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(buf, &t); err != nil {
		return nil, fmt.Errorf("decode lookup tables: %w", err)
	}
	if len(t.StateNames) == 0 {
		return nil, errors.New("decode lookup tables: state_names is empty")
	}
	if t.CountryCorrections == nil {
		t.CountryCorrections = map[string]string{}
	}
	return &t, nil
}
