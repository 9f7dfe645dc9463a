package qr

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEncodeFormat(t *testing.T) {
	got := Encode("abc-123")
	want := `{"containerId":"abc-123","version":"1.0","type":"container"}`
	if got != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}

	// Markup characters are not escaped.
	if got := Encode("a<b>&c"); !strings.Contains(got, `"a<b>&c"`) {
		t.Errorf("expected unescaped id, got %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	ids := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"x",
		`with "quotes" and \ backslash`,
		"škrinja ☃",
		"line\nbreak",
	}
	for _, id := range ids {
		d, err := Decode(Encode(id))
		if err != nil {
			t.Errorf("Decode(Encode(%q)): %v", id, err)
			continue
		}
		if d.ContainerID != id || d.Version != Version || d.Type != TypeContainer {
			t.Errorf("round trip of %q gave %+v", id, d)
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "https://example.com/some/other/qr"},
		{"json array", `["containerId"]`},
		{"json string", `"container"`},
		{"null", `null`},
		{"missing containerId", `{"version":"1.0","type":"container"}`},
		{"empty containerId", `{"containerId":"","type":"container"}`},
		{"zero containerId", `{"containerId":0,"type":"container"}`},
		{"boolean containerId", `{"containerId":true,"type":"container"}`},
		{"null containerId", `{"containerId":null,"type":"container"}`},
		{"wrong type", `{"containerId":"a","version":"1.0","type":"item"}`},
		{"missing type", `{"containerId":"a","version":"1.0"}`},
		{"type case", `{"containerId":"a","type":"Container"}`},
		{"truncated", `{"containerId":"a","type":"contai`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalid", tt.payload, err)
			}
			if IsValid(tt.payload) {
				t.Errorf("IsValid(%q) = true", tt.payload)
			}
		})
	}
}

func TestDecodeDefaultsVersion(t *testing.T) {
	for _, payload := range []string{
		`{"containerId":"a","type":"container"}`,
		`{"containerId":"a","version":"","type":"container"}`,
		`{"containerId":"a","version":1,"type":"container"}`,
		`{"containerId":"a","version":false,"type":"container"}`,
		`{"containerId":"a","version":null,"type":"container"}`,
	} {
		d, err := Decode(payload)
		if err != nil {
			t.Fatalf("Decode(%s): %v", payload, err)
		}
		if d.Version != Version {
			t.Errorf("Decode(%s).Version = %q, want %q", payload, d.Version, Version)
		}
	}
}

func TestDecodeKeepsOtherVersions(t *testing.T) {
	d, err := Decode(`{"containerId":"a","version":"2.0","type":"container","extra":true}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Version != "2.0" {
		t.Errorf("Version = %q, want 2.0", d.Version)
	}
}

func TestDecodeNumericContainerID(t *testing.T) {
	d, err := Decode(`{"containerId":42,"version":"1.0","type":"container"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.ContainerID != "42" {
		t.Errorf("ContainerID = %q, want 42", d.ContainerID)
	}
}

func TestEncodeIsValidJSON(t *testing.T) {
	var d Data
	if err := json.Unmarshal([]byte(Encode("id")), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.ContainerID != "id" {
		t.Errorf("unexpected %+v", d)
	}
}
