package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// responseShapes are the known single-document response layouts, tried in
// order. The first one that yields text wins.
var responseShapes = []func([]byte) (string, bool){
	// ollama chat: {"message":{"content":"..."}}
	func(b []byte) (string, bool) {
		var v struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}
		if json.Unmarshal(b, &v) == nil && v.Message.Content != "" {
			return v.Message.Content, true
		}
		return "", false
	},
	// ollama generate / generic output text: {"response":"..."}
	func(b []byte) (string, bool) {
		var v struct {
			Response string `json:"response"`
		}
		if json.Unmarshal(b, &v) == nil && v.Response != "" {
			return v.Response, true
		}
		return "", false
	},
	// responses-style nested array: {"output":[{"content":[{"text":"..."}]}]}
	func(b []byte) (string, bool) {
		var v struct {
			Output []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"output"`
		}
		if json.Unmarshal(b, &v) != nil {
			return "", false
		}
		var sb strings.Builder
		for _, out := range v.Output {
			for _, c := range out.Content {
				sb.WriteString(c.Text)
			}
		}
		if sb.Len() > 0 {
			return sb.String(), true
		}
		return "", false
	},
	// completions: {"choices":[{"message":{"content":"..."}}]}
	func(b []byte) (string, bool) {
		var v struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if json.Unmarshal(b, &v) == nil && len(v.Choices) > 0 && v.Choices[0].Message.Content != "" {
			return v.Choices[0].Message.Content, true
		}
		return "", false
	},
}

// normalizeBody interprets a complete response body. A backend may still
// emit NDJSON even when a single-shot response was requested, so multi-line
// fragment bodies are detected first and aggregated the same way the
// streaming path does. A single document goes through the shape matchers;
// when nothing matches the raw body is returned as-is so the caller always
// gets something diagnosable.
func normalizeBody(data []byte) string {
	body := bytes.TrimSpace(data)
	// A pretty-printed document contains newlines but parses whole;
	// NDJSON with more than one fragment does not.
	if bytes.IndexByte(body, '\n') >= 0 && !json.Valid(body) {
		agg := &aggregator{}
		agg.Feed(body)
		agg.Finish()
		return agg.Text()
	}
	for _, extract := range responseShapes {
		if text, ok := extract(body); ok {
			return strings.TrimSpace(text)
		}
	}
	return string(body)
}
