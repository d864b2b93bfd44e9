package adapter

import (
	"fmt"
	"os"
	"strings"

	"shipment-reconciler/internal/features/tracking/domain"

	"gopkg.in/yaml.v3"
)

type codeTablesFile struct {
	Carriers map[string]domain.CarrierCodes `yaml:"carriers"`
}

// LoadCodeTables reads the per-carrier classification tables from a YAML file.
func LoadCodeTables(path string) (map[string]domain.CarrierCodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read carrier code tables: %w", err)
	}
	return ParseCodeTables(data)
}

// ParseCodeTables decodes classification tables keyed by upper-cased carrier name.
func ParseCodeTables(data []byte) (map[string]domain.CarrierCodes, error) {
	var file codeTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse carrier code tables: %w", err)
	}
	if len(file.Carriers) == 0 {
		return nil, fmt.Errorf("carrier code tables define no carriers")
	}

	tables := make(map[string]domain.CarrierCodes, len(file.Carriers))
	for name, codes := range file.Carriers {
		tables[strings.ToUpper(strings.TrimSpace(name))] = codes
	}
	return tables, nil
}

// matchesCarrier compares a carrier name against the canonical name and its aliases, ignoring case.
func matchesCarrier(name, canonical string, aliases []string) bool {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, canonical) {
		return true
	}
	for _, alias := range aliases {
		if strings.EqualFold(name, alias) {
			return true
		}
	}
	return false
}
