package core

import (
	"strings"
	"sync"
	"testing"

	"github.com/huangsam/docname/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilenameNormal(t *testing.T) {
	tests := []struct {
		name string
		meta schema.DocumentMetadata
		want string
	}{
		{
			name: "all fields",
			meta: schema.DocumentMetadata{Date: "2024-07-12", Description: "Kwik Fit Invoice", DocID: "147218533"},
			want: "2024-07-12_Kwik_Fit_Invoice_147218533.pdf",
		},
		{
			name: "no date",
			meta: schema.DocumentMetadata{Description: "Insurance Policy", DocID: "POL-2023-5678"},
			want: "Insurance_Policy_POL_2023_5678.pdf",
		},
		{
			name: "no id",
			meta: schema.DocumentMetadata{Date: "2023-05-15", Description: "Bank Statement"},
			want: "2023-05-15_Bank_Statement.pdf",
		},
		{
			name: "description only",
			meta: schema.DocumentMetadata{Description: "Utility Bill"},
			want: "Utility_Bill.pdf",
		},
		{
			name: "nothing extracted",
			meta: schema.DocumentMetadata{},
			want: "Document.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilename(tt.meta, ".pdf", false))
		})
	}
}

func TestBuildFilenameReceipt(t *testing.T) {
	meta := schema.DocumentMetadata{
		Date:        "2024-07-12",
		Store:       "Shell Gas Station",
		Description: "Fuel Purchase",
	}
	assert.Equal(t, "2024-07-12_Shell_Gas_Station_Fuel_Purchase.jpg", BuildFilename(meta, ".jpg", true))

	// Missing store drops its separator too
	meta.Store = ""
	assert.Equal(t, "2024-07-12_Fuel_Purchase.jpg", BuildFilename(meta, ".jpg", true))
}

func TestBuildFilenameSanitization(t *testing.T) {
	meta := schema.DocumentMetadata{Description: "  Q3 // Report: (draft)  "}
	assert.Equal(t, "Q3_Report_draft.pdf", BuildFilename(meta, ".pdf", false))
}

func TestBuildFilenameLowercasesExtension(t *testing.T) {
	meta := schema.DocumentMetadata{Description: "Scan"}
	assert.Equal(t, "Scan.pdf", BuildFilename(meta, ".PDF", false))
}

func TestBuildFilenameCapsStem(t *testing.T) {
	meta := schema.DocumentMetadata{Description: strings.Repeat("Word ", 100)}
	name := BuildFilename(meta, ".pdf", false)
	stem := strings.TrimSuffix(name, ".pdf")
	assert.LessOrEqual(t, len([]rune(stem)), maxStemLen)
	assert.False(t, strings.HasSuffix(stem, "_"))
}

func TestBuildFilenameLongDescriptionKeepsDateAndID(t *testing.T) {
	meta := schema.DocumentMetadata{
		Date:        "2024-07-12",
		Description: strings.Repeat("Quarterly Consolidated Report ", 10),
		DocID:       "INV-999888777",
	}
	name := BuildFilename(meta, ".pdf", false)
	stem := strings.TrimSuffix(name, ".pdf")

	// Only the description shrinks under the cap; the bounding components
	// survive intact
	assert.LessOrEqual(t, len([]rune(stem)), maxStemLen)
	assert.True(t, strings.HasPrefix(stem, "2024-07-12_Quarterly"))
	assert.True(t, strings.HasSuffix(stem, "_INV_999888777"))
}

func TestBuildFilenameOversizeDescriptionAloneStillCapped(t *testing.T) {
	meta := schema.DocumentMetadata{Description: strings.Repeat("x", 400)}
	name := BuildFilename(meta, ".pdf", false)
	assert.Len(t, []rune(strings.TrimSuffix(name, ".pdf")), maxStemLen)
}

func TestNameRegistryClaimFreeName(t *testing.T) {
	dir := t.TempDir()
	registry := NewNameRegistry()

	assert.Equal(t, "Invoice_123.pdf", registry.Claim(dir, "Invoice_123.pdf", ""))
}

func TestNameRegistryCollisionProbing(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "Invoice_123.pdf", "a")
	writeTestFile(t, dir, "Invoice_123_v2.pdf", "b")

	registry := NewNameRegistry()
	assert.Equal(t, "Invoice_123_v3.pdf", registry.Claim(dir, "Invoice_123.pdf", ""))
}

func TestNameRegistryOwnNameCountsAsFree(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "Invoice_123.pdf", "a")
	source := writeTestFile(t, dir, "Invoice_123_v2.pdf", "b")

	// The claimant already holds a variant from an earlier run; it keeps
	// that name instead of escalating to _v3
	registry := NewNameRegistry()
	assert.Equal(t, "Invoice_123_v2.pdf", registry.Claim(dir, "Invoice_123.pdf", source))
}

func TestNameRegistryConcurrentClaims(t *testing.T) {
	dir := t.TempDir()
	registry := NewNameRegistry()

	const n = 16
	names := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Go(func() {
			names <- registry.Claim(dir, "Statement.pdf", "")
		})
	}
	wg.Wait()
	close(names)

	seen := make(map[string]struct{})
	for name := range names {
		_, dup := seen[name]
		require.False(t, dup, "name %s claimed twice", name)
		seen[name] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Contains(t, seen, "Statement.pdf")
	assert.Contains(t, seen, "Statement_v2.pdf")
}

func TestNameRegistryRelease(t *testing.T) {
	dir := t.TempDir()
	registry := NewNameRegistry()

	require.Equal(t, "Scan.pdf", registry.Claim(dir, "Scan.pdf", ""))
	require.Equal(t, "Scan_v2.pdf", registry.Claim(dir, "Scan.pdf", ""))

	registry.Release(dir, "Scan.pdf")
	assert.Equal(t, "Scan.pdf", registry.Claim(dir, "Scan.pdf", ""))
}
