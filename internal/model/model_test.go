package model

import (
	"encoding/json"
	"testing"
)

func TestStatValue_MarshalsBareInt(t *testing.T) {
	n := int64(42)
	b, err := json.Marshal(StatValue{IntValue: &n})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "42" {
		t.Fatalf("expected bare 42, got %s", b)
	}
}

func TestStatValue_MarshalsBareFloat(t *testing.T) {
	f := 6.333
	b, err := json.Marshal(StatValue{FloatValue: &f})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "6.333" {
		t.Fatalf("expected bare 6.333, got %s", b)
	}
}

func TestStatValue_MarshalsBareString(t *testing.T) {
	s := "W3"
	b, err := json.Marshal(StatValue{StringValue: &s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"W3"` {
		t.Fatalf("expected bare quoted string, got %s", b)
	}
}

func TestStatValue_MarshalsNull(t *testing.T) {
	b, err := json.Marshal(StatValue{IsNull: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("expected null, got %s", b)
	}
}

func TestStatValue_InMapMarshalsBareValues(t *testing.T) {
	n := int64(3)
	stats := map[string]StatValue{"hits": {IntValue: &n}, "missing": {IsNull: true}}
	b, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"hits":3,"missing":null}` {
		t.Fatalf("expected bare values within the map, got %s", b)
	}
}
