package service

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DecodeRows validates a JSON array of loosely-typed rows against the task
// schema: id must be an integer, title a string, description a string or
// null (null reads as empty). Unknown columns are ignored.
func DecodeRows(data []byte) ([]Task, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Row: -1, Reason: "expected a JSON array of rows"}
	}

	tasks := make([]Task, 0, len(raw))
	for i, r := range raw {
		t, err := decodeRow(i, r)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeRow(i int, data json.RawMessage) (Task, error) {
	var row map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&row); err != nil || row == nil {
		return Task{}, &DecodeError{Row: i, Reason: "row is not an object"}
	}

	var t Task

	idRaw, ok := row["id"]
	if !ok {
		return Task{}, &DecodeError{Row: i, Field: "id", Reason: "missing"}
	}
	var num json.Number
	if bytes.HasPrefix(bytes.TrimSpace(idRaw), []byte(`"`)) {
		return Task{}, &DecodeError{Row: i, Field: "id", Reason: "not a number"}
	}
	if err := json.Unmarshal(idRaw, &num); err != nil {
		return Task{}, &DecodeError{Row: i, Field: "id", Reason: "not a number"}
	}
	id, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return Task{}, &DecodeError{Row: i, Field: "id", Reason: "not an integer"}
	}
	t.ID = id

	titleRaw, ok := row["title"]
	if !ok {
		return Task{}, &DecodeError{Row: i, Field: "title", Reason: "missing"}
	}
	if isNull(titleRaw) {
		return Task{}, &DecodeError{Row: i, Field: "title", Reason: "null"}
	}
	if err := json.Unmarshal(titleRaw, &t.Title); err != nil {
		return Task{}, &DecodeError{Row: i, Field: "title", Reason: "not a string"}
	}

	if descRaw, ok := row["description"]; ok && !isNull(descRaw) {
		if err := json.Unmarshal(descRaw, &t.Description); err != nil {
			return Task{}, &DecodeError{Row: i, Field: "description", Reason: "not a string"}
		}
	}

	return t, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
