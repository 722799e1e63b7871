package openrouter

import (
	"encoding/json"
	"strconv"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestPayload is the body of one chat completion request. Params are
// encoded as top-level fields next to model and messages.
type RequestPayload struct {
	Model          string
	Messages       []Message
	ResponseFormat *ResponseFormat
	Params         map[string]any
}

func buildPayload(cfg *GenerationConfig, userInput string) RequestPayload {
	format := cfg.ResponseFormat.Clone()
	return RequestPayload{
		Model: cfg.ModelName,
		Messages: []Message{
			{Role: RoleSystem, Content: cfg.SystemMessage},
			{Role: RoleUser, Content: userInput},
		},
		ResponseFormat: &format,
		Params:         cloneParams(cfg.ModelParams),
	}
}

// MarshalJSON flattens Params into the request object.
func (p RequestPayload) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(p.Params)+3)
	for k, v := range p.Params {
		body[k] = v
	}
	body["model"] = p.Model
	body["messages"] = p.Messages
	if p.ResponseFormat != nil && p.ResponseFormat.Type != "" {
		body["response_format"] = p.ResponseFormat.wire()
	}
	return json.Marshal(body)
}

// Prompt returns the content of the first message with the given role.
func (p RequestPayload) Prompt(role string) string {
	for _, m := range p.Messages {
		if m.Role == role {
			return m.Content
		}
	}
	return ""
}

// FloatParam returns a numeric param as float64.
func (p RequestPayload) FloatParam(name string) (float64, bool) {
	switch v := p.Params[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
