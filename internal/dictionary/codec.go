package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrParse is wrapped by Unmarshal when the dataset text is not valid
// YAML or not a mapping of tooltip identifiers.
var ErrParse = errors.New("dataset parse failed")

// ErrApply is wrapped by ParseAndVerify when a dataset parses but does
// not survive a re-serialization round trip. Such a dataset is never
// applied; the caller keeps its current state.
var ErrApply = errors.New("dataset failed round-trip check")

// Marshal serializes d to YAML with identifiers in sorted order, so
// repeated exports of the same dictionary are byte-identical.
func Marshal(d Dictionary) ([]byte, error) {
	return yaml.Marshal(d)
}

// Unmarshal parses YAML dataset text into a Dictionary. The input must
// be a mapping; each value is either a bare string (legacy entry) or a
// {content, width} record.
func Unmarshal(raw []byte) (Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: dataset is empty or not a mapping", ErrParse)
	}
	return d, nil
}

// ParseAndVerify parses dataset text and additionally checks that the
// result survives a Marshal/Unmarshal round trip before handing it to
// the caller. Import paths use this so a structurally odd dataset can
// never replace the user's edits.
func ParseAndVerify(raw []byte) (Dictionary, error) {
	d, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	out, err := Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApply, err)
	}
	again, err := Unmarshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrApply, err)
	}
	if !d.Equal(again) {
		return nil, fmt.Errorf("%w: entries changed across re-serialization", ErrApply)
	}
	return d, nil
}

// LoadFile reads and parses a YAML dataset file.
func LoadFile(path string) (Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Unmarshal(raw)
}

// MarshalYAML renders the dictionary as a mapping with sorted keys.
func (d Dictionary) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range d.IDs() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: id}
		val, err := d[id].yamlNode()
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, key, val)
	}
	return root, nil
}

func (e Entry) yamlNode() (*yaml.Node, error) {
	n := &yaml.Node{}
	if e.Legacy {
		// Encode rather than build the scalar by hand: the encoder
		// quotes content whose plain form would resolve to another tag
		// ("null", "true", "123"), so it re-parses as the same string.
		if err := n.Encode(e.Content); err != nil {
			return nil, err
		}
		return n, nil
	}
	if err := n.Encode(record{Content: e.Content, Width: e.Width}); err != nil {
		return nil, err
	}
	return n, nil
}

// record is the structured on-disk form of an entry.
type record struct {
	Content string `yaml:"content" json:"content"`
	Width   string `yaml:"width" json:"width"`
}

// UnmarshalYAML accepts either a bare scalar (legacy entry) or a
// {content, width} mapping.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		content := value.Value
		if value.Tag == "!!null" {
			content = ""
		}
		*e = Entry{Content: content, Legacy: true}
		return nil
	case yaml.MappingNode:
		var r record
		if err := value.Decode(&r); err != nil {
			return err
		}
		if r.Width == "" {
			r.Width = DefaultWidth
		}
		*e = Entry{Content: r.Content, Width: r.Width}
		return nil
	default:
		return fmt.Errorf("tooltip entry must be a string or a content/width record (line %d)", value.Line)
	}
}

// MarshalJSON preserves the legacy/structured union in the persisted
// snapshot format: legacy entries stay bare strings.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Legacy {
		return json.Marshal(e.Content)
	}
	return json.Marshal(record{Content: e.Content, Width: e.Width})
}

// UnmarshalJSON mirrors MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Entry{Content: s, Legacy: true}
		return nil
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Width == "" {
		r.Width = DefaultWidth
	}
	*e = Entry{Content: r.Content, Width: r.Width}
	return nil
}
