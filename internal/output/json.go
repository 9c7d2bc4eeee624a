package output

import (
	"encoding/json"
	"fmt"

	"github.com/mfinch/virtadm/internal/vm"
)

// JSONFormatter formats summaries as JSON.
type JSONFormatter struct{}

// FormatSummary formats a single summary as JSON.
func (f *JSONFormatter) FormatSummary(s vm.Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatSummaries formats a listing as a JSON array.
func (f *JSONFormatter) FormatSummaries(list []vm.Summary) (string, error) {
	if list == nil {
		list = []vm.Summary{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summaries to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
