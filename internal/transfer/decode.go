package transfer

import (
	"encoding/json"
	"fmt"
)

// Payload is a decoded import file whose recipes have not been validated.
type Payload struct {
	Version string
	Recipes []any
}

// Decode checks the envelope of an import file. A payload that is not an
// object with a recipes array fails with ErrInvalidEnvelope.
func Decode(data []byte) (*Payload, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrInvalidEnvelope
	}

	list, ok := obj["recipes"].([]any)
	if !ok {
		return nil, ErrInvalidEnvelope
	}

	version, _ := obj["version"].(string)

	return &Payload{
		Version: version,
		Recipes: list,
	}, nil
}
