package mssqlkit

import (
	"strings"
	"testing"
)

func TestIsReservedKeyword(t *testing.T) {
	tests := []struct {
		word     string
		expected bool
	}{
		{"SELECT", true},
		{"select", true},
		{"Select", true},
		{"UPDATE", true},
		{"database", true},
		{"Kill", true},
		{"backup", true},
		{"external", true},
		{"merge", true},
		{"Table2016", false},
		{"users", false},
		{"inventory", false},
		{"selection", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsReservedKeyword(tt.word); got != tt.expected {
			t.Errorf("IsReservedKeyword(%q) = %v, expected %v", tt.word, got, tt.expected)
		}
	}
}

func TestReservedKeywords_LookupConsistency(t *testing.T) {
	// The lookup table is built from the slice, so every entry must be
	// found and no entry may appear twice.
	if len(reservedLookup) != len(reservedKeywords) {
		t.Errorf("Lookup has %d entries, keyword list has %d", len(reservedLookup), len(reservedKeywords))
	}

	for _, kw := range reservedKeywords {
		if !IsReservedKeyword(kw) {
			t.Errorf("Keyword %q not found by lookup", kw)
		}
		if kw != strings.ToUpper(kw) {
			t.Errorf("Keyword %q is not stored uppercase", kw)
		}
	}
}
