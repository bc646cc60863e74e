package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Dictionary is the externally maintained data about the host environment:
// the methods of known objects and the documentation shown for node ids.
//
//	{
//	  "objects": {"helper": ["trim", "stripTags"]},
//	  "docs": {"call:helper.trim": "Removes surrounding whitespace."}
//	}
//
// A nil *Dictionary knows nothing.
type Dictionary struct {
	Objects map[string][]string `json:"objects"`
	Docs    map[string]string   `json:"docs"`
}

func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return ParseDictionary(data)
}

func ParseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	for object, methods := range d.Objects {
		sorted := append([]string(nil), methods...)
		sort.Strings(sorted)
		d.Objects[object] = sorted
	}
	return &d, nil
}

// Members returns the sorted method names of object.
func (d *Dictionary) Members(object string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	methods, ok := d.Objects[object]
	return methods, ok
}

// Describe returns the documentation for a node id.
func (d *Dictionary) Describe(id string) (string, bool) {
	if d == nil {
		return "", false
	}
	text, ok := d.Docs[id]
	return text, ok
}
