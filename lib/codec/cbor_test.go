// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
	"time"
)

type scaleRequest struct {
	Action   string `cbor:"action"`
	Fleet    string `cbor:"fleet,omitempty"`
	Quantity int    `cbor:"quantity"`
}

type processRecord struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	CreatedAt time.Time `json:"created_at"`
}

func TestMarshalDeterministic(t *testing.T) {
	request := map[string]any{"action": "scale", "quantity": 3, "fleet": "worker"}

	first, err := Marshal(request)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(request)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("map encoding is not deterministic: %x != %x", first, again)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 891011121, time.UTC)
	data, err := Marshal(processRecord{ID: "a", Command: "node worker.js", CreatedAt: created})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	if generic["id"] != "a" || generic["command"] != "node worker.js" {
		t.Errorf("json tag names not used: %v", generic)
	}

	var decoded processRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.CreatedAt.Equal(created) {
		t.Errorf("created_at: got %v, want %v (sub-second precision must survive)", decoded.CreatedAt, created)
	}
}

func TestDecodeIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(scaleRequest{Action: "scale", Quantity: 4})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type: got %T, want map[string]any", decoded)
	}
	// Non-negative CBOR integers decode as uint64 into an any target.
	if quantity, ok := fields["quantity"].(uint64); !ok || quantity != 4 {
		t.Errorf("quantity: got %#v, want uint64(4)", fields["quantity"])
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	requests := []scaleRequest{
		{Action: "scale", Fleet: "worker", Quantity: 2},
		{Action: "scale", Quantity: 0},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, request := range requests {
		if err := encoder.Encode(request); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range requests {
		var got scaleRequest
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if got != want {
			t.Errorf("request %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestRawMessageDefersDecoding(t *testing.T) {
	data, err := Marshal(scaleRequest{Action: "scale", Quantity: 5})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw RawMessage
	if err := NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		t.Fatalf("Decode raw: %v", err)
	}

	var header struct {
		Action string `cbor:"action"`
	}
	if err := Unmarshal(raw, &header); err != nil {
		t.Fatalf("Unmarshal header: %v", err)
	}
	if header.Action != "scale" {
		t.Errorf("action: got %q, want %q", header.Action, "scale")
	}
}
