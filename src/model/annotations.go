package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Annotation is one key/value entry attached to an ExceptionDetail.
type Annotation struct {
	Key   string
	Value string
}

// Annotations is an insertion-ordered set of key/value annotations.
// Keys are unique; setting an existing key overwrites its value in place.
// A plain Go map would randomize formatter output, so order is kept
// explicitly and JSON round-trips preserve it.
type Annotations []Annotation

// Set adds or overwrites the value for key, preserving first-insertion order.
func (a *Annotations) Set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Annotation{Key: key, Value: value})
}

// Get returns the value for key and whether it is present.
func (a Annotations) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// MarshalJSON renders the annotations as a JSON object in insertion order.
func (a Annotations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the document's key order.
func (a *Annotations) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("annotations: expected JSON object, got %v", tok)
	}

	out := Annotations{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("annotations: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out.Set(key, value)
	}

	*a = out
	return nil
}
