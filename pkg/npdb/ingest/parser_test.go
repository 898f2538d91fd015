package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowNormalizesAmountsAndState(t *testing.T) {
	org, ok := ParseRow(RawRow{
		EIN:       "123456789",
		Name:      "Helping Hands",
		State:     "CA",
		AssetCode: "5",
	})
	require.True(t, ok)

	assert.Equal(t, "123456789", org.EIN)
	assert.Equal(t, "Helping Hands", org.Name)
	assert.Equal(t, "CA", org.State)
	assert.Equal(t, int64(375_000), org.AssetAmount)
	assert.Equal(t, int64(0), org.RevenueAmount)
	assert.Equal(t, DataSource, org.DataSource)
}

func TestParseRowDropsMissingEIN(t *testing.T) {
	_, ok := ParseRow(RawRow{Name: "No Identity Foundation"})
	assert.False(t, ok)

	_, ok = ParseRow(RawRow{EIN: "   ", Name: "Blank Identity"})
	assert.False(t, ok)
}

func TestParseRowTrimsAndTruncates(t *testing.T) {
	org, ok := ParseRow(RawRow{
		EIN:   " 987654321 ",
		Name:  strings.Repeat("x", 600),
		State: "CALIFORNIA",
		Zip:   "90210-12345678",
		City:  "  Los Angeles  ",
	})
	require.True(t, ok)

	assert.Equal(t, "987654321", org.EIN)
	assert.Len(t, org.Name, 500)
	assert.Equal(t, "CA", org.State)
	assert.Equal(t, "90210-1234", org.Zip)
	assert.Equal(t, "Los Angeles", org.City)
}

func TestParseRowDerivesCategory(t *testing.T) {
	org, ok := ParseRow(RawRow{EIN: "1", NTEECode: "B300"})
	require.True(t, ok)
	assert.Equal(t, "B300", org.NTEECode)
	assert.Equal(t, "Education", org.NTEEDescription)

	org, ok = ParseRow(RawRow{EIN: "2", NTEECode: "9999"})
	require.True(t, ok)
	assert.Equal(t, "Unknown", org.NTEEDescription)

	org, ok = ParseRow(RawRow{EIN: "3"})
	require.True(t, ok)
	assert.Empty(t, org.NTEEDescription)
}
