// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

// controlRequest mirrors a CBOR-only socket request.
type controlRequest struct {
	Action  string `cbor:"action"`
	Item    string `cbor:"item,omitempty"`
	Checked bool   `cbor:"checked"`
}

// itemState mirrors a type shared by JSON output and CBOR storage.
type itemState struct {
	Checked bool `json:"checked"`
	Enabled bool `json:"enabled"`
}

// kind is a text-marshaled enum like menu.Kind.
type kind int

func (k kind) MarshalText() ([]byte, error) {
	switch k {
	case 1:
		return []byte("action"), nil
	case 2:
		return []byte("check"), nil
	}
	return nil, fmt.Errorf("unknown kind %d", int(k))
}

func (k *kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "action":
		*k = 1
	case "check":
		*k = 2
	default:
		return fmt.Errorf("unknown kind %q", text)
	}
	return nil
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := controlRequest{Action: "set-checked", Item: "vdd_persistent", Checked: true}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded controlRequest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMaps(t *testing.T) {
	// Map iteration order is random; the encoding must not be.
	snapshot := map[string]itemState{
		"vdd_create":     {Checked: true},
		"vdd_close":      {Enabled: true},
		"vdd_persistent": {Checked: true, Enabled: true},
		"restart":        {Enabled: true},
	}
	first, err := Marshal(snapshot)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(snapshot)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("encoding of the same map differs between calls")
		}
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buffer bytes.Buffer
	requests := []controlRequest{
		{Action: "state"},
		{Action: "set-checked", Item: "vdd_create", Checked: true},
	}
	encoder := NewEncoder(&buffer)
	for _, request := range requests {
		if err := encoder.Encode(request); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for index, want := range requests {
		var got controlRequest
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", index, err)
		}
		if got != want {
			t.Errorf("request %d: got %+v, want %+v", index, got, want)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(itemState{Checked: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"checked"`) || !strings.Contains(notation, `"enabled"`) {
		t.Errorf("json tag names not used as CBOR keys: %s", notation)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	data, err := Marshal(controlRequest{Action: "state"})
	if err != nil {
		t.Fatal(err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(notation, `"item"`) {
		t.Errorf("empty omitempty field encoded: %s", notation)
	}
}

func TestTextMarshalerAsString(t *testing.T) {
	type entry struct {
		Kind kind `cbor:"kind"`
	}
	data, err := Marshal(entry{Kind: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if notation != `{"kind": "check"}` {
		t.Errorf("notation = %s, want kind as text", notation)
	}
	var decoded entry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != 2 {
		t.Errorf("decoded kind = %d, want 2", decoded.Kind)
	}
}

func TestTimePrecision(t *testing.T) {
	type activation struct {
		Time time.Time `cbor:"time"`
	}
	original := activation{Time: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded activation
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Time.Equal(original.Time) {
		t.Errorf("time = %v, want %v", decoded.Time, original.Time)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var request controlRequest
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &request); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestToJSON(t *testing.T) {
	data, err := Marshal(map[string]any{
		"language": "zh",
		"items":    map[string]itemState{"vdd_create": {Checked: true}},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	output, err := ToJSON(data)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded struct {
		Language string               `json:"language"`
		Items    map[string]itemState `json:"items"`
	}
	if err := json.Unmarshal(output, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if decoded.Language != "zh" || !decoded.Items["vdd_create"].Checked {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDiagnoseFirst(t *testing.T) {
	first, err := Marshal("menu-activated")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Marshal(int64(7))
	if err != nil {
		t.Fatal(err)
	}
	sequence := append(append([]byte(nil), first...), second...)

	notation, remaining, err := DiagnoseFirst(sequence)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if notation != `"menu-activated"` {
		t.Errorf("first notation = %s", notation)
	}
	notation, remaining, err = DiagnoseFirst(remaining)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if notation != "7" || len(remaining) != 0 {
		t.Errorf("second notation = %s, %d bytes left", notation, len(remaining))
	}
}

func BenchmarkMarshalRequest(b *testing.B) {
	request := controlRequest{Action: "set-checked", Item: "vdd_persistent", Checked: true}
	b.ReportAllocs()
	for b.Loop() {
		Marshal(request)
	}
}
