package dictprep

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
)

// object is a JSON object that keeps its members in document order.
type object []member

type member struct {
	Key   string
	Value json.RawMessage
}

func (o *object) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	members := object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return err
		}
		members = append(members, member{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = members
	return nil
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encode(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// fixRecord repairs the prose fields of one record. Anything that is not
// an object, and every field it does not know, is returned byte for byte.
func fixRecord(raw json.RawMessage) json.RawMessage {
	var rec object
	if json.Unmarshal(raw, &rec) != nil {
		return raw
	}
	for i, m := range rec {
		switch m.Key {
		case "definition", "usage":
			rec[i].Value = fixString(m.Value)
		case "source", "example":
			rec[i].Value = fixCitation(m.Value)
		case "story":
			rec[i].Value = fixStory(m.Value)
		}
	}
	return encodeOr(rec, raw)
}

func fixString(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || raw[0] != '"' {
		return raw
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return raw
	}
	fixed := dataset.EnsureTerminalStop(s)
	if fixed == s {
		return raw
	}
	return encodeOr(fixed, raw)
}

func fixCitation(raw json.RawMessage) json.RawMessage {
	var cite object
	if json.Unmarshal(raw, &cite) != nil {
		return raw
	}
	for i, m := range cite {
		if m.Key == "text" {
			cite[i].Value = fixString(m.Value)
		}
	}
	return encodeOr(cite, raw)
}

func fixStory(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || raw[0] != '[' {
		return raw
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return raw
	}
	for i := range items {
		items[i] = fixString(items[i])
	}
	return encodeOr(items, raw)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeOr(v any, fallback json.RawMessage) json.RawMessage {
	b, err := encode(v)
	if err != nil {
		return fallback
	}
	return b
}
