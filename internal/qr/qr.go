// Package qr encodes and decodes the payload printed on container labels.
//
// The payload is a small JSON object binding a QR code to one container:
//
//	{"containerId":"<id>","version":"1.0","type":"container"}
package qr

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Version is written into every encoded payload and assumed when a decoded
// payload omits it.
const Version = "1.0"

// TypeContainer is the only payload type understood by the scanner.
const TypeContainer = "container"

// ErrInvalid is returned for any payload that does not reference a container.
var ErrInvalid = errors.New("qr: not a container payload")

// Data is a decoded payload.
type Data struct {
	ContainerID string `json:"containerId"`
	Version     string `json:"version"`
	Type        string `json:"type"`
}

// Encode returns the payload for containerID. The output is deterministic:
// fields appear in a fixed order and characters such as < and & are left
// unescaped.
func Encode(containerID string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(Data{ContainerID: containerID, Version: Version, Type: TypeContainer})
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// Decode parses a scanned payload. It requires a JSON object with type
// "container" and a containerId that is a non-empty string or a non-zero
// number, which is kept in its JSON text form. A version that is missing,
// empty or not a string becomes Version.
func Decode(payload string) (Data, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil || raw == nil {
		return Data{}, ErrInvalid
	}

	var d Data
	id, ok := containerID(raw["containerId"])
	if !ok {
		return Data{}, ErrInvalid
	}
	d.ContainerID = id
	if !field(raw, "type", &d.Type) || d.Type != TypeContainer {
		return Data{}, ErrInvalid
	}
	if !field(raw, "version", &d.Version) || d.Version == "" {
		d.Version = Version
	}
	return d, nil
}

// IsValid reports whether payload decodes.
func IsValid(payload string) bool {
	_, err := Decode(payload)
	return err == nil
}

// containerID reads the identifier field. Numbers are kept in their JSON
// text form; zero never identifies a container.
func containerID(v json.RawMessage) (string, bool) {
	if v == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", false
	}
	if f, err := n.Float64(); err != nil || f == 0 {
		return "", false
	}
	return n.String(), true
}

// field decodes raw[key] into a string. It reports false when the key is
// missing or does not hold a string.
func field(raw map[string]json.RawMessage, key string, dst *string) bool {
	v, ok := raw[key]
	if !ok {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}
