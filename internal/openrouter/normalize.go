package openrouter

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Envelope identifies the provider response shape a payload was found in.
type Envelope int

// Known envelopes, in the order Normalize tries them.
const (
	EnvelopeUnknown Envelope = iota
	EnvelopeDirect
	EnvelopeContent
	EnvelopeChoices
)

func (e Envelope) String() string {
	switch e {
	case EnvelopeDirect:
		return "direct"
	case EnvelopeContent:
		return "content"
	case EnvelopeChoices:
		return "choices"
	default:
		return "unknown"
	}
}

// Normalizer reduces the response shapes providers return to one canonical
// payload: the JSON object carrying ExpectedField.
type Normalizer struct {
	ExpectedField string
	// PlainText keeps string content as {"content": text} instead of parsing
	// it as JSON. Used for non-JSON response formats.
	PlainText bool
}

type envelopeVariant struct {
	kind    Envelope
	matches func(obj map[string]any) bool
	extract func(obj map[string]any) (any, error)
}

func (n Normalizer) variants() []envelopeVariant {
	return []envelopeVariant{
		{
			kind: EnvelopeDirect,
			matches: func(obj map[string]any) bool {
				_, ok := obj[n.field()]
				return ok
			},
			extract: func(obj map[string]any) (any, error) { return obj, nil },
		},
		{
			kind: EnvelopeContent,
			// blank content falls through to choices, then to MISSING_CONTENT
			matches: func(obj map[string]any) bool {
				content, ok := obj["content"].(string)
				return ok && strings.TrimSpace(content) != ""
			},
			extract: func(obj map[string]any) (any, error) {
				return n.parseContent(obj["content"].(string))
			},
		},
		{
			kind: EnvelopeChoices,
			matches: func(obj map[string]any) bool {
				_, ok := obj["choices"]
				return ok
			},
			extract: n.extractChoice,
		},
	}
}

// Normalize extracts the canonical payload from a decoded response body.
func (n Normalizer) Normalize(raw any) (any, Envelope, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, EnvelopeUnknown, newError(KindInvalidResponseFormat,
			"Invalid API response format", map[string]any{"type": jsonTypeOf(raw, true)})
	}

	for _, v := range n.variants() {
		if !v.matches(obj) {
			continue
		}
		payload, err := v.extract(obj)
		if err != nil {
			return nil, v.kind, err
		}
		return payload, v.kind, nil
	}

	if err := providerError(obj); err != nil {
		return nil, EnvelopeUnknown, err
	}
	if _, ok := obj["content"]; ok {
		return nil, EnvelopeContent, newError(KindMissingContent, "Missing content in API response", obj)
	}
	return nil, EnvelopeUnknown, newError(KindMissingChoices, "No choices in API response", obj)
}

func (n Normalizer) field() string {
	if n.ExpectedField == "" {
		return DefaultExpectedField
	}
	return n.ExpectedField
}

func (n Normalizer) extractChoice(obj map[string]any) (any, error) {
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil, newError(KindMissingChoices, "No choices in API response", obj)
	}

	first, ok := choices[0].(map[string]any)
	if !ok {
		return nil, newError(KindMissingContent, "Missing content in API response", choices[0])
	}

	message, ok := first["message"].(map[string]any)
	if !ok {
		// some providers answer non-streaming calls with the streaming shape
		message, ok = first["delta"].(map[string]any)
	}
	if !ok {
		return nil, newError(KindMissingContent, "Missing message in API response", first)
	}

	switch content := message["content"].(type) {
	case string:
		if strings.TrimSpace(content) == "" {
			return nil, newError(KindMissingContent, "Missing content in API response", first)
		}
		return n.parseContent(content)
	case map[string]any:
		if _, ok := content[n.field()]; ok {
			return content, nil
		}
		return nil, newError(KindMissingContent, "Content does not contain "+n.field(), first)
	default:
		return nil, newError(KindMissingContent, "Missing content in API response", first)
	}
}

func (n Normalizer) parseContent(content string) (any, error) {
	if n.PlainText {
		return map[string]any{"content": content}, nil
	}
	return parseEmbeddedJSON(content)
}

// parseEmbeddedJSON parses a JSON document the model returned as text. A
// second attempt is made after stripping markdown fences and surrounding prose.
func parseEmbeddedJSON(content string) (any, error) {
	trimmed := strings.TrimSpace(content)

	var out any
	directErr := json.Unmarshal([]byte(trimmed), &out)
	if directErr == nil {
		return out, nil
	}

	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized != "" && sanitized != trimmed {
		if err := json.Unmarshal([]byte(sanitized), &out); err == nil {
			return out, nil
		}
	}

	return nil, wrapError(KindJSONParse, "Failed to parse JSON response",
		map[string]any{"content": content}, directErr)
}

func providerError(obj map[string]any) error {
	raw, ok := obj["error"]
	if !ok || raw == nil {
		return nil
	}
	status := http.StatusBadGateway
	if m, ok := raw.(map[string]any); ok {
		if code, ok := m["code"].(float64); ok && code >= 400 && code <= 599 && code == float64(int(code)) {
			status = int(code)
		}
	}
	return apiError(status, raw)
}

func sanitizeJSONPayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(content))
	if trimmed == "" {
		return ""
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
