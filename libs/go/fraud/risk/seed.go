package risk

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed_default.yaml
var defaultSeed []byte

type seedFile struct {
	Advisors []Record `yaml:"advisors"`
	Websites []Record `yaml:"websites"`
}

// ParseSeed decodes a YAML seed document and builds a table from it.
// Unknown fields are rejected.
func ParseSeed(data []byte) (*Table, error) {
	var sf seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidSeed, err)
	}
	records := make([]Record, 0, len(sf.Advisors)+len(sf.Websites))
	for _, r := range sf.Advisors {
		r.Kind = KindAdvisor
		records = append(records, r)
	}
	for _, r := range sf.Websites {
		r.Kind = KindWebsite
		records = append(records, r)
	}
	return NewTable(records)
}

// LoadSeedFile reads and parses path.
func LoadSeedFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	t, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return t, nil
}

// DefaultTable builds the compiled-in demo table.
func DefaultTable() *Table {
	t, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded seed: %v", err))
	}
	return t
}

// DefaultSeed returns a copy of the embedded seed document.
func DefaultSeed() []byte { return bytes.Clone(defaultSeed) }
