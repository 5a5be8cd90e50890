package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("payload is not a JSON object")

// ParsePayload parses a command payload typed on the command line. Input
// that is not strict JSON is repaired first, so `{id: volume, value: 50}`
// and `{"id":"volume","value":50,}` both work. Empty input yields nil.
func ParsePayload(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(s)
		if rerr != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &v); err != nil {
			return nil, fmt.Errorf("invalid payload after repair: %w", err)
		}
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}
