package structured

import (
	"fmt"
	"os"

	"github.com/tsawler/tabmerge/model"
)

// ParseJSONFile reads and converts a JSON file.
func ParseJSONFile(path string) (*model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return FromJSON(data)
}

// ParseXMLFile reads and converts an XML file.
func ParseXMLFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return FromXML(f)
}
