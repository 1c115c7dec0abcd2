// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package jsonvalue

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a yaml.v3 node tree into a Value. Mapping order is kept.
func FromYAML(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, c := range node.Content {
			item, err := FromYAML(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		if len(node.Content)%2 != 0 {
			return Value{}, fmt.Errorf("jsonvalue: line %d: odd mapping content", node.Line)
		}
		members := make([]Member, 0, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("jsonvalue: line %d: mapping key must be a scalar", key.Line)
			}
			val, err := FromYAML(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: key.Value, Value: val})
		}
		return Object(members...), nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, fmt.Errorf("jsonvalue: line %d: %w", node.Line, err)
			}
			return Bool(b), nil
		case "!!int", "!!float":
			return Number(node.Value), nil
		default:
			return String(node.Value), nil
		}
	}
	return Value{}, fmt.Errorf("jsonvalue: line %d: unsupported yaml node kind %d", node.Line, node.Kind)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := FromYAML(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
