package hit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"logview/internal/app/errors"
)

// Hit is a single search result as returned by the logs endpoint
type Hit struct {
	ID        string         `json:"_id"`
	Index     string         `json:"_index,omitempty"`
	Source    map[string]any `json:"_source"`
	Highlight *Highlight     `json:"highlight,omitempty"`
	Sort      []any          `json:"sort,omitempty"`
}

// Highlight holds highlighted fragments per field
type Highlight struct {
	Message []string `json:"message,omitempty"`
}

// envelope covers {"hits": [...]} and {"hits": {"hits": [...]}}
type envelope struct {
	Hits json.RawMessage `json:"hits"`
}

// Decode parses a logs response body. It accepts a bare JSON array of hits,
// an object with a "hits" array, or the raw search shape with "hits.hits".
func Decode(data []byte) ([]Hit, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", errors.ErrUnexpectedResponse)
	}

	switch data[0] {
	case '[':
		return decodeList(data)
	case '{':
		var env envelope
		if err := unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrUnexpectedResponse, err)
		}

		if len(env.Hits) == 0 {
			return nil, fmt.Errorf("%w: missing hits", errors.ErrUnexpectedResponse)
		}

		return Decode(env.Hits)
	default:
		return nil, fmt.Errorf("%w: not a json array or object", errors.ErrUnexpectedResponse)
	}
}

func decodeList(data []byte) ([]Hit, error) {
	hits := make([]Hit, 0)
	if err := unmarshal(data, &hits); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnexpectedResponse, err)
	}

	for i := range hits {
		if hits[i].Source == nil {
			hits[i].Source = make(map[string]any)
		}
	}

	return hits, nil
}

// unmarshal keeps numbers as json.Number so large values render unchanged
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(v)
}
