package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minhngoc/olympia/internal/llm"
)

// QAPair is the transient question/answer shape that flows from the extractor
// into the CSV writer and later into the seeding job.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const (
	extractionSystemPrompt = "You extract question and answer pairs from study material. Always return well-formed JSON."

	extractionPromptTemplate = "Extract all [question + answer] pairs from the following passage. " +
		"Return the result as JSON with the fields 'question' and 'answer'.\n" +
		"Make sure the returned JSON is complete and well formed.\n" +
		"Passage:\n%s"
)

// Extractor turns one chunk of text into QAPairs with a single LLM call.
type Extractor struct {
	llm llm.Client
}

func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{llm: client}
}

func (e *Extractor) ExtractChunk(ctx context.Context, chunk string) ([]QAPair, error) {
	raw, err := e.llm.GenerateJSON(ctx, extractionSystemPrompt, fmt.Sprintf(extractionPromptTemplate, chunk))
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	pairs, err := ParseQAPairs(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing extraction output: %w", err)
	}
	return pairs, nil
}

// ParseQAPairs normalizes the model output into a flat list of pairs. The
// accepted shapes, in order of preference:
//   - a JSON array of pair objects;
//   - a single object carrying both "question" and "answer";
//   - an object whose values are pair objects (or lists of them).
//
// Anything else is an error rather than a silent empty result.
func ParseQAPairs(raw string) ([]QAPair, error) {
	cleaned := []byte(llm.StripCodeFence(raw))

	var list []QAPair
	if err := json.Unmarshal(cleaned, &list); err == nil {
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(cleaned, &obj); err != nil {
		return nil, fmt.Errorf("output is neither a JSON array nor an object: %w", err)
	}

	_, hasQ := obj["question"]
	_, hasA := obj["answer"]
	if hasQ && hasA {
		var single QAPair
		if err := json.Unmarshal(cleaned, &single); err != nil {
			return nil, fmt.Errorf("decoding single pair object: %w", err)
		}
		return []QAPair{single}, nil
	}

	return decodeObjectValues(cleaned)
}

// decodeObjectValues walks the object token by token so the pairs keep the
// order they appear in the payload.
func decodeObjectValues(data []byte) ([]QAPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	var pairs []QAPair
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var rawVal json.RawMessage
		if err := dec.Decode(&rawVal); err != nil {
			return nil, err
		}

		var pair QAPair
		if err := json.Unmarshal(rawVal, &pair); err == nil && (pair.Question != "" || pair.Answer != "") {
			pairs = append(pairs, pair)
			continue
		}
		var nested []QAPair
		if err := json.Unmarshal(rawVal, &nested); err == nil {
			pairs = append(pairs, nested...)
			continue
		}
		return nil, fmt.Errorf("value of %q is neither a question/answer object nor a list of them", key)
	}
	return pairs, nil
}
