package openrouter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Defaults for a new client.
const (
	DefaultEndpoint      = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel         = "openai/gpt-4o-mini"
	DefaultTitle         = "flashgen"
	DefaultExpectedField = "flashcards"
	DefaultSchemaName    = "flashcards"
)

// Response format types understood by the chat completions API.
const (
	ResponseTypeJSONObject = "json_object"
	ResponseTypeJSONSchema = "json_schema"
	ResponseTypeText       = "text"
)

// DefaultSystemMessage instructs the model to answer with flashcards only.
const DefaultSystemMessage = `You are an assistant that creates study flashcards from source text.
Extract the key facts, definitions and concepts and turn each into one flashcard.
The front holds a concise question or term (at most 200 characters).
The back holds the answer or explanation (at most 500 characters).
Respond only with JSON of the form {"flashcards":[{"front":"...","back":"..."}]}.`

var reservedParams = map[string]struct{}{
	"model":           {},
	"messages":        {},
	"response_format": {},
}

// GenerationConfig is the request configuration of a Client. Values are
// never mutated after construction; updates produce a new config.
type GenerationConfig struct {
	SystemMessage  string         `json:"system_message"`
	ModelName      string         `json:"model_name"`
	ModelParams    map[string]any `json:"model_params"`
	ResponseFormat ResponseFormat `json:"response_format"`
}

// ResponseFormat selects structured output from the provider.
type ResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat names the schema the response must follow. Strict turns on
// local validation of every response.
type JSONSchemaFormat struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]*SchemaNode `json:"schema"`
}

// DefaultFlashcardSchema is {flashcards: [{front: string, back: string}]}.
func DefaultFlashcardSchema() map[string]*SchemaNode {
	return map[string]*SchemaNode{
		"flashcards": ArrayNode(ObjectNode(map[string]*SchemaNode{
			"front": StringNode(),
			"back":  StringNode(),
		})),
	}
}

// DefaultConfig returns the flashcard generation defaults.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		SystemMessage: DefaultSystemMessage,
		ModelName:     DefaultModel,
		ModelParams: map[string]any{
			"temperature": 0.7,
			"max_tokens":  1500,
			"top_p":       1.0,
		},
		ResponseFormat: ResponseFormat{
			Type: ResponseTypeJSONObject,
			JSONSchema: &JSONSchemaFormat{
				Name:   DefaultSchemaName,
				Strict: true,
				Schema: DefaultFlashcardSchema(),
			},
		},
	}
}

// Clone returns a deep copy.
func (c GenerationConfig) Clone() GenerationConfig {
	out := c
	out.ModelParams = cloneParams(c.ModelParams)
	out.ResponseFormat = c.ResponseFormat.Clone()
	return out
}

// Clone returns a deep copy.
func (f ResponseFormat) Clone() ResponseFormat {
	out := f
	out.JSONSchema = f.JSONSchema.Clone()
	return out
}

// Clone returns a deep copy.
func (s *JSONSchemaFormat) Clone() *JSONSchemaFormat {
	if s == nil {
		return nil
	}
	return &JSONSchemaFormat{Name: s.Name, Strict: s.Strict, Schema: CloneFields(s.Schema)}
}

// IsJSON reports whether the provider is asked for JSON output.
func (f ResponseFormat) IsJSON() bool {
	return f.Type == ResponseTypeJSONObject || f.Type == ResponseTypeJSONSchema
}

// StrictSchema returns the schema responses are validated against, or nil
// when validation is off.
func (f ResponseFormat) StrictSchema() map[string]*SchemaNode {
	if !f.IsJSON() || f.JSONSchema == nil || !f.JSONSchema.Strict {
		return nil
	}
	return f.JSONSchema.Schema
}

// wire renders the response_format request field.
func (f ResponseFormat) wire() map[string]any {
	out := map[string]any{"type": f.Type}
	if f.JSONSchema != nil {
		out["json_schema"] = map[string]any{
			"name":   f.JSONSchema.Name,
			"strict": f.JSONSchema.Strict,
			"schema": objectJSONSchema(f.JSONSchema.Schema),
		}
	}
	return out
}

// ConfigUpdate is a partial GenerationConfig. Nil fields keep the current
// value. ModelParams merge key-wise and a nil value removes the key.
type ConfigUpdate struct {
	SystemMessage  *string
	ModelName      *string
	ModelParams    map[string]any
	ResponseFormat *ResponseFormatUpdate
}

// ResponseFormatUpdate is a partial ResponseFormat.
type ResponseFormatUpdate struct {
	Type       *string
	JSONSchema *JSONSchemaFormat
}

// Merge returns c with u applied. Neither input is modified and the result
// shares no maps or schema nodes with them.
func (c GenerationConfig) Merge(u ConfigUpdate) GenerationConfig {
	out := c.Clone()
	if u.SystemMessage != nil {
		out.SystemMessage = *u.SystemMessage
	}
	if u.ModelName != nil {
		out.ModelName = *u.ModelName
	}
	if u.ModelParams != nil {
		if out.ModelParams == nil {
			out.ModelParams = make(map[string]any, len(u.ModelParams))
		}
		for k, v := range u.ModelParams {
			if v == nil {
				delete(out.ModelParams, k)
				continue
			}
			out.ModelParams[k] = v
		}
	}
	if u.ResponseFormat != nil {
		if u.ResponseFormat.Type != nil {
			out.ResponseFormat.Type = *u.ResponseFormat.Type
		}
		if u.ResponseFormat.JSONSchema != nil {
			out.ResponseFormat.JSONSchema = u.ResponseFormat.JSONSchema.Clone()
		}
	}
	return out
}

// Validate rejects configs that cannot be turned into a request payload.
func (c GenerationConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ModelName) == "" {
		problems = append(problems, "model name is required")
	}
	if c.ResponseFormat.Type == "" {
		problems = append(problems, "response format type is required")
	}
	keys := make([]string, 0, len(c.ModelParams))
	for k := range c.ModelParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, reserved := reservedParams[k]; reserved {
			problems = append(problems, fmt.Sprintf("model param %q is reserved", k))
			continue
		}
		if !isPrimitive(c.ModelParams[k]) {
			problems = append(problems, fmt.Sprintf("model param %q must be a number, string or boolean", k))
		}
	}
	if len(problems) > 0 {
		return newError(KindInvalidConfiguration, "Invalid client configuration",
			map[string]any{"problems": problems})
	}
	return nil
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case string, bool, json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func cloneParams(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
