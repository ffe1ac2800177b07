package agegroup

import (
	"errors"
	"strings"
	"testing"
)

// TestAgeGroup_Validate covers the field rules.
func TestAgeGroup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		group   AgeGroup
		wantErr error
	}{
		{"valid", AgeGroup{Label: "Anak", Min: 5, Max: 12}, nil},
		{"single age", AgeGroup{Label: "Balita", Min: 4, Max: 4}, nil},
		{"missing label", AgeGroup{Min: 5, Max: 12}, ErrMissingLabel},
		{"label too long", AgeGroup{Label: strings.Repeat("x", MaxLabelLength+1), Min: 1, Max: 2}, ErrLabelTooLong},
		{"inverted", AgeGroup{Label: "Anak", Min: 12, Max: 5}, ErrInvalidAgeRange},
		{"negative", AgeGroup{Label: "Anak", Min: -1, Max: 5}, ErrNegativeAge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateKey rejects empty and oversized keys.
func TestValidateKey(t *testing.T) {
	if err := ValidateKey(""); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
	if err := ValidateKey(Key(strings.Repeat("k", MaxKeyLength+1))); !errors.Is(err, ErrKeyTooLong) {
		t.Errorf("expected ErrKeyTooLong, got %v", err)
	}
	if err := ValidateKey("balita"); err != nil {
		t.Errorf("expected custom key to be accepted, got %v", err)
	}
}

// TestGroups_Keys verifies ordering by lower bound.
func TestGroups_Keys(t *testing.T) {
	gs := Defaults()
	gs["balita"] = AgeGroup{Label: "Balita", Min: 1, Max: 4}

	got := gs.Keys()
	want := []Key{"balita", KeyAnak, KeyRemaja, KeyDewasa, KeyLansia}
	if len(got) != len(want) {
		t.Fatalf("Keys() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestGroups_Clone verifies a clone does not share the map.
func TestGroups_Clone(t *testing.T) {
	gs := Defaults()
	c := gs.Clone()
	delete(c, KeyAnak)
	if _, ok := gs[KeyAnak]; !ok {
		t.Error("deleting from clone must not affect original")
	}
}

// TestDefaults_AllValid guards the built-in table.
func TestDefaults_AllValid(t *testing.T) {
	for k, g := range Defaults() {
		if err := g.Validate(); err != nil {
			t.Errorf("default group %s invalid: %v", k, err)
		}
	}
	if !Defaults()[KeyAnak].Contains(12) || Defaults()[KeyAnak].Contains(13) {
		t.Error("anak must cover 5-12 inclusive")
	}
}
