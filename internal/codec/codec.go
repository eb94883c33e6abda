// Package codec converts between document bytes and the in-memory document
// representation. It round-trips through yaml.Node rather than a plain map so
// that the key order observed on decode is preserved, and so that encode
// emits variables in the document's traversal order.
package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/TFAGaming/quick-yaml.db/internal/document"
)

// Decode parses YAML bytes into a document. Empty or whitespace-only content
// decodes to an empty document, never an error. The top-level node must be a
// mapping; duplicate keys follow YAML semantics (the last occurrence wins)
// without disturbing the first occurrence's position.
func Decode(data []byte) (*document.Document, error) {
	doc := document.New()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parsing error: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// A document consisting only of comments or directives.
		return doc, nil
	}

	mapping := root.Content[0]
	if mapping.Kind == yaml.ScalarNode && mapping.Tag == "!!null" {
		return doc, nil
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level YAML node is not a mapping (line %d)", mapping.Line)
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valueNode := mapping.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, fmt.Errorf("invalid mapping key at line %d: %w", keyNode.Line, err)
		}
		var value interface{}
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid value for '%s' at line %d: %w", key, valueNode.Line, err)
		}
		doc.Set(key, value)
	}
	return doc, nil
}

// Encode renders the document as a YAML mapping in traversal order. Callers
// are expected to special-case the empty document (a zero-length file) before
// reaching the encoder; encoding an empty document yields "{}", which is not
// the on-disk representation of emptiness.
func Encode(doc *document.Document) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("cannot encode value for '%s': %w", key, err)
		}
		mapping.Content = append(mapping.Content, keyNode, valueNode)
	}

	out, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("YAML encoding error: %w", err)
	}
	return out, nil
}
