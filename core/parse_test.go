package core

import (
	"strings"
	"testing"

	"github.com/huangsam/docname/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseResponseComplete(t *testing.T) {
	raw := "Date: 2024-07-12\nDescription: Kwik Fit Invoice\nID: 147218533"

	meta := ParseResponse(raw, false)
	assert.Equal(t, schema.DocumentMetadata{
		Date:        "2024-07-12",
		Description: "Kwik Fit Invoice",
		DocID:       "147218533",
	}, meta)
}

func TestParseResponseRefusals(t *testing.T) {
	raw := "Date: NONE\nDescription: Insurance Policy\nID: UNKNOWN"

	meta := ParseResponse(raw, false)
	assert.Empty(t, meta.Date)
	assert.Equal(t, "Insurance Policy", meta.Description)
	assert.Empty(t, meta.DocID)
}

func TestParseResponseRefusalVariants(t *testing.T) {
	for _, id := range []string{"N/A", "NA", "n/a", "not visible", "Unable to determine"} {
		meta := ParseResponse("Description: Bank Statement\nID: "+id, false)
		assert.Empty(t, meta.DocID, "id %q should be treated as a refusal", id)
	}
}

func TestParseResponseDateFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Date: 2023-05-15", "2023-05-15"},
		{"Date: 15/05/2023", "2023-05-15"},
		{"Date: 15-05-2023", "2023-05-15"},
		{"Date: May 15, 2023", "2023-05-15"},
		{"Date: 15 May 2023", "2023-05-15"},
		{"Date: 5 May 2023", "2023-05-05"},
		{"Date: sometime in spring", ""},
		{"Date: 2023-13-45", ""},
	}
	for _, tt := range tests {
		meta := ParseResponse(tt.raw+"\nDescription: Utility Bill", false)
		assert.Equal(t, tt.want, meta.Date, "raw %q", tt.raw)
	}
}

func TestParseResponseMarkdownAndProse(t *testing.T) {
	raw := "Sure! Here is what I found:\n**Date**: 2024-01-02\n**Description**: Phone Contract.\n**ID**: REF-9981\nLet me know if you need anything else."

	meta := ParseResponse(raw, false)
	assert.Equal(t, "2024-01-02", meta.Date)
	assert.Equal(t, "Phone Contract", meta.Description)
	assert.Equal(t, "REF-9981", meta.DocID)
}

func TestParseResponseSanitizesFields(t *testing.T) {
	raw := "Description:   Electricity   Bill!!  (final)\nID: INV #42 / 2024"

	meta := ParseResponse(raw, false)
	assert.Equal(t, "Electricity Bill final", meta.Description)
	assert.Equal(t, "INV_42_2024", meta.DocID)
}

func TestParseResponseCapsFieldLength(t *testing.T) {
	desc := strings.Repeat("verylong ", 20)
	meta := ParseResponse("Description: "+desc, false)
	assert.LessOrEqual(t, len([]rune(meta.Description)), maxDescriptionLen)
}

func TestParseResponseReceiptStore(t *testing.T) {
	raw := "Date: 2024-07-12\nStore: Walmart\nDescription: Grocery\nID: 1234567890"

	meta := ParseResponse(raw, true)
	assert.Equal(t, "Walmart", meta.Store)
	assert.Equal(t, "Grocery", meta.Description)

	// Store is only extracted in receipt mode
	meta = ParseResponse(raw, false)
	assert.Empty(t, meta.Store)
}

func TestParseResponseNoFields(t *testing.T) {
	for _, raw := range []string{
		"",
		"I cannot read this document.",
		"Date: NONE\nDescription: NONE\nID: NONE",
	} {
		meta := ParseResponse(raw, false)
		assert.True(t, meta.IsZero(), "raw %q should yield empty metadata", raw)
	}
}
