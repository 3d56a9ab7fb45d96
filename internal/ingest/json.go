package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/systab/internal/syscalls"
)

// Positions within one row of the JSON row array.
const (
	jsonNamePos        = 1
	jsonIDPos          = 3
	jsonFirstArgPos    = 4
	jsonDefinitionFile = 9
	jsonDefinitionLine = 10

	jsonRowLen = jsonDefinitionLine + 1

	// EmptyParam is stored for an argument slot with no type in the JSON source.
	EmptyParam = "-"
)

// JSONNormalizer reads documents whose top-level object wraps the row array
// as the value of its first member, e.g. {"aaData": [[...], [...]]}.
type JSONNormalizer struct{}

func (JSONNormalizer) Normalize(doc []byte) ([]syscalls.Entry, error) {
	if !json.Valid(doc) {
		return nil, syscalls.Inputf("malformed JSON document")
	}

	rows, err := firstMemberRows(doc)
	if err != nil {
		return nil, err
	}

	entries := make([]syscalls.Entry, 0, len(rows))
	for i, raw := range rows {
		entry, err := normalizeJSONRow(raw)
		if err != nil {
			return nil, &syscalls.InputError{Reason: fmt.Sprintf("row %d", i), Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// firstMemberRows decodes the value of the first member of the top-level object.
// A map would lose member order, so the object is walked with the token stream.
func firstMemberRows(doc []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &syscalls.InputError{Reason: "read top-level value", Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, syscalls.Inputf("top-level value is not an object")
	}
	if !dec.More() {
		return nil, syscalls.Inputf("top-level object has no members")
	}
	if _, err := dec.Token(); err != nil {
		return nil, &syscalls.InputError{Reason: "read first member name", Err: err}
	}

	var rows []json.RawMessage
	if err := dec.Decode(&rows); err != nil {
		return nil, &syscalls.InputError{Reason: "first member is not a row array", Err: err}
	}
	return rows, nil
}

func normalizeJSONRow(raw json.RawMessage) (syscalls.Entry, error) {
	var row []json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return syscalls.Entry{}, errors.New("not an array")
	}
	if len(row) < jsonRowLen {
		return syscalls.Entry{}, fmt.Errorf("has %d positions, want at least %d", len(row), jsonRowLen)
	}

	name, err := scalarText(row[jsonNamePos])
	if err != nil {
		return syscalls.Entry{}, err
	}
	if name == "" {
		return syscalls.Entry{}, errors.New("empty name")
	}

	var params syscalls.Params
	if params[syscalls.SlotEAX], err = scalarText(row[jsonIDPos]); err != nil {
		return syscalls.Entry{}, err
	}
	for _, slot := range syscalls.Slots()[1:] {
		param, err := argumentType(row[jsonFirstArgPos+int(slot)-1])
		if err != nil {
			return syscalls.Entry{}, err
		}
		params[slot] = param
	}

	file, err := scalarText(row[jsonDefinitionFile])
	if err != nil {
		return syscalls.Entry{}, err
	}
	line, err := scalarText(row[jsonDefinitionLine])
	if err != nil {
		return syscalls.Entry{}, err
	}
	return syscalls.NewEntry(name, params, file+":"+line), nil
}

// argumentType extracts the "type" field of an argument object.
func argumentType(raw json.RawMessage) (string, error) {
	if isEmptyValue(raw) {
		return EmptyParam, nil
	}

	var arg map[string]json.RawMessage
	if err := json.Unmarshal(raw, &arg); err != nil {
		return "", fmt.Errorf("argument %s is not an object", string(raw))
	}
	typ, ok := arg["type"]
	if !ok {
		return "", nil
	}
	return scalarText(typ)
}

// scalarText renders a string, number, boolean or null as plain text.
func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("json.Unmarshal > %w", err)
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", string(trimmed))
	case 'n':
		return "", nil
	}
	return string(trimmed), nil
}

// isEmptyValue reports whether raw is absent, null, false, zero, "", "0" or an empty array/object.
func isEmptyValue(raw json.RawMessage) bool {
	switch s := strings.TrimSpace(string(raw)); s {
	case "", "null", "false", `""`, `"0"`:
		return true
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
		switch v := v.(type) {
		case float64:
			return v == 0
		case []any:
			return len(v) == 0
		case map[string]any:
			return len(v) == 0
		}
	}
	return false
}
