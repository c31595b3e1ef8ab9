package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	strTag   = "!!str"
	intTag   = "!!int"
	floatTag = "!!float"
	boolTag  = "!!bool"
	nullTag  = "!!null"
	mapTag   = "!!map"
	seqTag   = "!!seq"

	jsonIndent = "  "
)

var errNotMapping = errors.New("configuration root must be a mapping")

func isJSON(configFile string) bool {
	return strings.EqualFold(filepath.Ext(configFile), ".json")
}

// decodeDocument parses a configuration file into an ordered node tree. JSON
// is read token by token so that key order survives a rewrite.
func decodeDocument(content []byte, configFile string) (*yaml.Node, error) {
	if isJSON(configFile) {
		decoder := json.NewDecoder(bytes.NewReader(content))
		decoder.UseNumber()
		root, err := readJSONValue(decoder)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
		if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: unexpected data after the root value", configFile)
		}
		if root.Kind != yaml.MappingNode {
			return nil, errNotMapping
		}
		return root, nil
	}

	var document yaml.Node
	if err := yaml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 ||
		document.Content[0].Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	return &document, nil
}

// rootMapping returns the top-level mapping of a decoded document.
func rootMapping(document *yaml.Node) *yaml.Node {
	if document.Kind == yaml.DocumentNode {
		return document.Content[0]
	}
	return document
}

// encodeDocument renders the node tree back in the format of configFile. The
// trailing newline of the original content is kept.
func encodeDocument(document *yaml.Node, configFile string, original []byte) ([]byte, error) {
	var buffer bytes.Buffer
	if isJSON(configFile) {
		if err := writeJSONValue(&buffer, document, 0); err != nil {
			return nil, err
		}
		if bytes.HasSuffix(original, []byte("\n")) {
			buffer.WriteByte('\n')
		}
		return buffer.Bytes(), nil
	}

	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", configFile, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", configFile, err)
	}
	return buffer.Bytes(), nil
}

func readJSONValue(decoder *json.Decoder) (*yaml.Node, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch value := token.(type) {
	case json.Delim:
		switch value {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: mapTag}
			for decoder.More() {
				keyToken, keyErr := decoder.Token()
				if keyErr != nil {
					return nil, keyErr
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyToken)
				}
				child, childErr := readJSONValue(decoder)
				if childErr != nil {
					return nil, childErr
				}
				node.Content = append(node.Content, stringNode(key), child)
			}
			_, err = decoder.Token()
			return node, err
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: seqTag}
			for decoder.More() {
				child, childErr := readJSONValue(decoder)
				if childErr != nil {
					return nil, childErr
				}
				node.Content = append(node.Content, child)
			}
			_, err = decoder.Token()
			return node, err
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", value)
		}
	case string:
		return stringNode(value), nil
	case json.Number:
		tag := intTag
		if strings.ContainsAny(value.String(), ".eE") {
			tag = floatTag
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: boolTag, Value: fmt.Sprint(value)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", token)
	}
}

func writeJSONValue(buffer *bytes.Buffer, node *yaml.Node, depth int) error {
	switch node.Kind {
	case yaml.DocumentNode:
		return writeJSONValue(buffer, node.Content[0], depth)
	case yaml.AliasNode:
		return writeJSONValue(buffer, node.Alias, depth)
	case yaml.MappingNode:
		if len(node.Content) == 0 {
			buffer.WriteString("{}")
			return nil
		}
		buffer.WriteString("{\n")
		for i := 0; i+1 < len(node.Content); i += 2 {
			buffer.WriteString(strings.Repeat(jsonIndent, depth+1))
			key, err := quote(node.Content[i].Value)
			if err != nil {
				return err
			}
			buffer.WriteString(key + ": ")
			if err = writeJSONValue(buffer, node.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(node.Content) {
				buffer.WriteByte(',')
			}
			buffer.WriteByte('\n')
		}
		buffer.WriteString(strings.Repeat(jsonIndent, depth) + "}")
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			buffer.WriteString("[]")
			return nil
		}
		buffer.WriteString("[\n")
		for i, child := range node.Content {
			buffer.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := writeJSONValue(buffer, child, depth+1); err != nil {
				return err
			}
			if i+1 < len(node.Content) {
				buffer.WriteByte(',')
			}
			buffer.WriteByte('\n')
		}
		buffer.WriteString(strings.Repeat(jsonIndent, depth) + "]")
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case intTag, floatTag, boolTag:
			buffer.WriteString(node.Value)
		case nullTag:
			buffer.WriteString("null")
		default:
			quoted, err := quote(node.Value)
			if err != nil {
				return err
			}
			buffer.WriteString(quoted)
		}
	}
	return nil
}

// quote renders a JSON string without HTML escaping.
func quote(value string) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buffer.String(), "\n"), nil
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: value}
}

// lookup returns the value node of key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setVersionPair writes version and sha into a variant mapping. When either key
// is missing both are moved to the front, version first.
func setVersionPair(variant *yaml.Node, version, sha string) {
	versionNode := lookup(variant, "version")
	shaNode := lookup(variant, "sha")
	if versionNode != nil && shaNode != nil {
		setString(versionNode, version)
		setString(shaNode, sha)
		return
	}

	rest := make([]*yaml.Node, 0, len(variant.Content))
	for i := 0; i+1 < len(variant.Content); i += 2 {
		key := variant.Content[i].Value
		if key == "version" || key == "sha" {
			continue
		}
		rest = append(rest, variant.Content[i], variant.Content[i+1])
	}
	variant.Content = append([]*yaml.Node{
		stringNode("version"), stringNode(version),
		stringNode("sha"), stringNode(sha),
	}, rest...)
}

func setString(node *yaml.Node, value string) {
	node.Kind = yaml.ScalarNode
	node.Tag = strTag
	node.Value = value
	node.Content = nil
	node.Alias = nil
	if node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		node.Style = 0
	}
}
