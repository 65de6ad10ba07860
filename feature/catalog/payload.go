package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// emptyPayload is stored instead of NULL so payload columns always scan.
var emptyPayload = datatypes.JSON("{}")

// EncodePayload serializes a raw provider payload. A nil map encodes as {}.
func EncodePayload(payload map[string]any) (datatypes.JSON, error) {
	if len(payload) == 0 {
		return emptyPayload, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return datatypes.JSON(data), nil
}

// DecodePayload parses a stored payload. Numbers decode as json.Number.
func DecodePayload(raw datatypes.JSON) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// BeforeSave keeps the payload column non-null.
func (s *SourceRecord) BeforeSave(*gorm.DB) error {
	if len(s.Payload) == 0 {
		s.Payload = emptyPayload
	}
	return nil
}
