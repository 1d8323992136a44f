package logquery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape identifies which of the known layouts a response body used.
type Shape int

const (
	// ShapeEmpty means neither layout matched; the result has no items.
	ShapeEmpty Shape = iota
	// ShapeNested is {"data": {"items": [...]}}.
	ShapeNested
	// ShapeFlat is {"items": [...]} at the top level.
	ShapeFlat
)

func (s Shape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	default:
		return "empty"
	}
}

// envelope is a response body split into its parts, before the payload is
// decoded into typed items.
type envelope struct {
	shape    Shape
	payload  json.RawMessage
	meta     json.RawMessage
	tagInfos json.RawMessage
}

// resolveEnvelope picks the payload: data.items first, then top-level items.
// Anything else yields ShapeEmpty. Only a body that is not a JSON object (or
// null) is an error.
func resolveEnvelope(body []byte) (envelope, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return envelope{}, fmt.Errorf("response is not a JSON object: %w", err)
	}

	env := envelope{shape: ShapeEmpty}
	if present(top["meta"]) {
		env.meta = top["meta"]
	}
	if present(top["tag_infos"]) {
		env.tagInfos = top["tag_infos"]
	}

	if raw := top["data"]; present(raw) {
		var data map[string]json.RawMessage
		if json.Unmarshal(raw, &data) == nil && present(data["items"]) {
			env.shape = ShapeNested
			env.payload = raw
			return env, nil
		}
	}

	if present(top["items"]) {
		env.shape = ShapeFlat
		env.payload = body
	}
	return env, nil
}

// decode turns the envelope into typed data. ShapeEmpty yields an empty,
// non-nil item list.
func (env envelope) decode() (LogData, error) {
	if env.shape == ShapeEmpty {
		return LogData{Items: []LogItem{}}, nil
	}

	var data LogData
	if err := json.Unmarshal(env.payload, &data); err != nil {
		return LogData{}, fmt.Errorf("decode %s payload: %w", env.shape, err)
	}
	if data.Items == nil {
		data.Items = []LogItem{}
	}
	return data, nil
}

// topLevelTagInfos decodes the top-level tag_infos list. A value that is not
// a list is ignored.
func (env envelope) topLevelTagInfos() []json.RawMessage {
	if env.tagInfos == nil {
		return nil
	}
	var infos []json.RawMessage
	if err := json.Unmarshal(env.tagInfos, &infos); err != nil {
		return nil
	}
	return infos
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
