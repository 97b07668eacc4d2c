package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// GroupCatalog is the ordered list of declared groups. It decodes from either a
// mapping (name -> languages, document order kept) or a sequence of entries.
type GroupCatalog []GroupDecl

// TaskCatalog is the ordered list of task descriptors, decoded like GroupCatalog.
type TaskCatalog []TaskDescriptor

func (c *GroupCatalog) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var plain []GroupDecl
		if err := node.Decode(&plain); err != nil {
			return err
		}
		*c = plain
		return nil
	case yaml.MappingNode:
		out := make(GroupCatalog, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var langs []string
			if err := node.Content[i+1].Decode(&langs); err != nil {
				return fmt.Errorf("language_groups.%s: %w", node.Content[i].Value, err)
			}
			out = append(out, GroupDecl{Name: node.Content[i].Value, Languages: langs})
		}
		*c = out
		return nil
	default:
		return fmt.Errorf("language_groups: expected mapping or sequence (line %d)", node.Line)
	}
}

func (c *TaskCatalog) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var plain []TaskDescriptor
		if err := node.Decode(&plain); err != nil {
			return err
		}
		*c = plain
		return nil
	case yaml.MappingNode:
		out := make(TaskCatalog, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var td TaskDescriptor
			if err := node.Content[i+1].Decode(&td); err != nil {
				return fmt.Errorf("tasks.%s: %w", node.Content[i].Value, err)
			}
			td.Name = node.Content[i].Value
			out = append(out, td)
		}
		*c = out
		return nil
	default:
		return fmt.Errorf("tasks: expected mapping or sequence (line %d)", node.Line)
	}
}

func (c *GroupCatalog) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var plain []GroupDecl
		if err := json.Unmarshal(data, &plain); err != nil {
			return err
		}
		*c = plain
		return nil
	}
	var out GroupCatalog
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var langs []string
		if err := json.Unmarshal(raw, &langs); err != nil {
			return fmt.Errorf("language_groups.%s: %w", key, err)
		}
		out = append(out, GroupDecl{Name: key, Languages: langs})
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func (c *TaskCatalog) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var plain []TaskDescriptor
		if err := json.Unmarshal(data, &plain); err != nil {
			return err
		}
		*c = plain
		return nil
	}
	var out TaskCatalog
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var td TaskDescriptor
		if err := json.Unmarshal(raw, &td); err != nil {
			return fmt.Errorf("tasks.%s: %w", key, err)
		}
		td.Name = key
		out = append(out, td)
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// decodeOrderedObject walks a JSON object calling each for every member in
// document order.
func decodeOrderedObject(data []byte, each func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object or array, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := each(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
