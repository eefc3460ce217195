package seats

import (
	"reflect"
	"testing"
)

func TestAllFree(t *testing.T) {
	occupied := OccupancyMap{"A1": "user_1", "B4": "user_2"}

	tests := []struct {
		name      string
		requested []string
		want      bool
	}{
		{"all free", []string{"A2", "A3"}, true},
		{"one held", []string{"A2", "B4"}, false},
		{"every seat held", []string{"A1", "B4"}, false},
		{"empty request", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllFree(occupied, tt.requested); got != tt.want {
				t.Errorf("AllFree(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

func TestHoldAndRelease(t *testing.T) {
	m := OccupancyMap{}
	m.Hold([]string{"C1", "C2"}, "user_1")

	if !m.IsHeld("C1") || !m.IsHeld("C2") {
		t.Fatalf("seats not held: %v", m)
	}

	// Another user's seat is not released
	m["C3"] = "user_2"
	released := m.Release([]string{"C1", "C3"}, "user_1")

	if !reflect.DeepEqual(released, []string{"C1"}) {
		t.Errorf("released = %v, want [C1]", released)
	}
	if m.IsHeld("C1") {
		t.Error("C1 still held after release")
	}
	if m["C3"] != "user_2" {
		t.Error("C3 held by user_2 should be untouched")
	}
	if !m.IsHeld("C2") {
		t.Error("C2 was not part of the release")
	}
}

func TestKeysOrder(t *testing.T) {
	m := OccupancyMap{"B1": "u", "A10": "u", "A2": "u", "A1": "u"}
	want := []string{"A1", "A2", "A10", "B1"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize([]string{" a1", "A1", "b2 "})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := []string{"A1", "B2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}

	if _, err := Normalize([]string{"A1", "  "}); err != ErrInvalidSeatID {
		t.Errorf("blank seat err = %v, want ErrInvalidSeatID", err)
	}
}

func TestOccupancyMapValueScan(t *testing.T) {
	m := OccupancyMap{"A1": "user_1"}
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var back OccupancyMap
	if err := back.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if back["A1"] != "user_1" {
		t.Errorf("round trip lost entry: %v", back)
	}

	var empty OccupancyMap
	if err := empty.Scan(nil); err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Scan(nil) = %v, %v; want empty non-nil map", empty, err)
	}

	if err := empty.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
