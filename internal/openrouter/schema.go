package openrouter

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NodeType is the tag of a SchemaNode.
type NodeType string

// Schema node tags. TypeAny accepts every value, including a missing one.
const (
	TypeAny     NodeType = "any"
	TypeString  NodeType = "string"
	TypeNumber  NodeType = "number"
	TypeBoolean NodeType = "boolean"
	TypeObject  NodeType = "object"
	TypeArray   NodeType = "array"
)

// SchemaNode describes the expected shape of a value in a provider response.
type SchemaNode struct {
	Type   NodeType
	Fields map[string]*SchemaNode
	Items  *SchemaNode
}

// StringNode returns a node that requires a string.
func StringNode() *SchemaNode { return &SchemaNode{Type: TypeString} }

// NumberNode returns a node that requires a number.
func NumberNode() *SchemaNode { return &SchemaNode{Type: TypeNumber} }

// BooleanNode returns a node that requires a boolean.
func BooleanNode() *SchemaNode { return &SchemaNode{Type: TypeBoolean} }

// AnyNode returns a node that accepts anything.
func AnyNode() *SchemaNode { return &SchemaNode{Type: TypeAny} }

// ObjectNode returns a node that requires an object with the given fields.
func ObjectNode(fields map[string]*SchemaNode) *SchemaNode {
	return &SchemaNode{Type: TypeObject, Fields: fields}
}

// ArrayNode returns a node that requires an array whose elements match items.
func ArrayNode(items *SchemaNode) *SchemaNode {
	return &SchemaNode{Type: TypeArray, Items: items}
}

// ParseSchema builds a SchemaNode from its loose form: a primitive tag string,
// a map of fields, or a one-element list describing array items. Anything it
// does not recognise becomes an accept-anything node.
func ParseSchema(v any) *SchemaNode {
	switch t := v.(type) {
	case *SchemaNode:
		return t.Clone()
	case string:
		switch NodeType(t) {
		case TypeString, TypeNumber, TypeBoolean:
			return &SchemaNode{Type: NodeType(t)}
		}
		return AnyNode()
	case map[string]any:
		return ObjectNode(ParseSchemaFields(t))
	case []any:
		if len(t) == 1 {
			return ArrayNode(ParseSchema(t[0]))
		}
		return ArrayNode(AnyNode())
	default:
		return AnyNode()
	}
}

// ParseSchemaFields parses every entry of a loose field map.
func ParseSchemaFields(m map[string]any) map[string]*SchemaNode {
	fields := make(map[string]*SchemaNode, len(m))
	for k, v := range m {
		fields[k] = ParseSchema(v)
	}
	return fields
}

// Clone returns a deep copy of the node.
func (n *SchemaNode) Clone() *SchemaNode {
	if n == nil {
		return nil
	}
	return &SchemaNode{
		Type:   n.Type,
		Fields: CloneFields(n.Fields),
		Items:  n.Items.Clone(),
	}
}

// CloneFields deep-copies a field map.
func CloneFields(fields map[string]*SchemaNode) map[string]*SchemaNode {
	if fields == nil {
		return nil
	}
	out := make(map[string]*SchemaNode, len(fields))
	for k, v := range fields {
		out[k] = v.Clone()
	}
	return out
}

// Loose returns the node in the loose form accepted by ParseSchema.
func (n *SchemaNode) Loose() any {
	if n == nil {
		return string(TypeAny)
	}
	switch n.Type {
	case TypeObject:
		m := make(map[string]any, len(n.Fields))
		for k, v := range n.Fields {
			m[k] = v.Loose()
		}
		return m
	case TypeArray:
		return []any{n.Items.Loose()}
	case TypeString, TypeNumber, TypeBoolean:
		return string(n.Type)
	default:
		return string(TypeAny)
	}
}

// MarshalJSON encodes the node in loose form.
func (n *SchemaNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Loose())
}

// UnmarshalJSON decodes the loose form.
func (n *SchemaNode) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = *ParseSchema(v)
	return nil
}

// JSONSchema renders the node as a JSON Schema document for the provider.
func (n *SchemaNode) JSONSchema() map[string]any {
	if n == nil {
		return map[string]any{}
	}
	switch n.Type {
	case TypeString, TypeNumber, TypeBoolean:
		return map[string]any{"type": string(n.Type)}
	case TypeArray:
		return map[string]any{"type": "array", "items": n.Items.JSONSchema()}
	case TypeObject:
		return objectJSONSchema(n.Fields)
	default:
		return map[string]any{}
	}
}

func objectJSONSchema(fields map[string]*SchemaNode) map[string]any {
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		node := fields[k]
		props[k] = node.JSONSchema()
		if node != nil && node.Type != TypeAny {
			required = append(required, k)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// SchemaViolation is the details payload of a SCHEMA_VALIDATION_ERROR.
type SchemaViolation struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Validate checks data against the top-level field schema. Every field must
// be present with the tagged type; extra fields are ignored. On success the
// data is returned unchanged.
func Validate(data any, schema map[string]*SchemaNode) (any, error) {
	if err := validateNode(data, true, ObjectNode(schema), ""); err != nil {
		return nil, err
	}
	return data, nil
}

func validateNode(value any, present bool, node *SchemaNode, path string) error {
	if node == nil || node.Type == TypeAny || node.Type == "" {
		return nil
	}

	actual := jsonTypeOf(value, present)
	if actual != string(node.Type) {
		return violation(path, string(node.Type), actual)
	}

	switch node.Type {
	case TypeObject:
		obj := value.(map[string]any)
		for _, k := range sortedKeys(node.Fields) {
			v, ok := obj[k]
			if err := validateNode(v, ok, node.Fields[k], joinPath(path, k)); err != nil {
				return err
			}
		}
	case TypeArray:
		for i, item := range value.([]any) {
			if err := validateNode(item, true, node.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func violation(path, expected, actual string) error {
	if path == "" {
		path = "$"
	}
	return newError(KindSchemaValidation,
		fmt.Sprintf("Response does not match expected schema at %s", path),
		SchemaViolation{Path: path, Expected: expected, Actual: actual})
}

func jsonTypeOf(v any, present bool) string {
	if !present {
		return "missing"
	}
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return string(TypeString)
	case bool:
		return string(TypeBoolean)
	case float64, float32, int, int32, int64, json.Number:
		return string(TypeNumber)
	case map[string]any:
		return string(TypeObject)
	case []any:
		return string(TypeArray)
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func sortedKeys(m map[string]*SchemaNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
