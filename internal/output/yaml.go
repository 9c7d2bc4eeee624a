package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mfinch/virtadm/internal/vm"
)

// YAMLFormatter formats summaries as YAML.
type YAMLFormatter struct{}

// FormatSummary formats a single summary as YAML.
func (f *YAMLFormatter) FormatSummary(s vm.Summary) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary to YAML: %w", err)
	}

	return string(data), nil
}

// FormatSummaries formats a listing as a YAML sequence.
func (f *YAMLFormatter) FormatSummaries(list []vm.Summary) (string, error) {
	if list == nil {
		list = []vm.Summary{}
	}

	data, err := yaml.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summaries to YAML: %w", err)
	}

	return string(data), nil
}
