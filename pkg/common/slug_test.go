package common

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Fasteners", "fasteners"},
		{"with spaces", "Power Tools", "power-tools"},
		{"ampersand", "Nuts & Bolts", "nuts-bolts"},
		{"multiple spaces", "Heavy   Duty  Anchors", "heavy-duty-anchors"},
		{"with numbers", "M8 Hex Bolts", "m8-hex-bolts"},
		{"special characters", "Abrasives (Grinding)!", "abrasives-grinding"},
		{"leading and trailing junk", "  --Sealants-- ", "sealants"},
		{"diacritics", "Tornillería Métrica", "tornilleria-metrica"},
		{"german sharp s folds to ss", "Maße", "masse"},
		{"uppercase", "WELDING", "welding"},
		{"already a slug", "pipe-fittings", "pipe-fittings"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Power Tools", "Nuts & Bolts", "Tornillería Métrica", "Maße", "M8 Hex Bolts",
		"  spaced  out  ", "already-a-slug", "",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}

func TestSequenceNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{4}-\d{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, SequenceNumber("ORD"))
	}
	assert.Regexp(t, regexp.MustCompile(`^QT-\d{4}-\d{4}$`), SequenceNumber("QT"))
}
