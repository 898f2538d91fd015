package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevenueBucketFor(t *testing.T) {
	tests := []struct {
		revenue int64
		want    string
	}{
		{-100, "Zero"},
		{0, "Zero"},
		{1, "<$50K"},
		{49_999, "<$50K"},
		{50_000, "$50K-$250K"},
		{249_999, "$50K-$250K"},
		{250_000, "$250K-$1M"},
		{999_999, "$250K-$1M"},
		{1_000_000, "$1M-$5M"},
		{4_999_999, "$1M-$5M"},
		{5_000_000, ">$5M"},
		{9_000_000_000, ">$5M"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RevenueBucketFor(tt.revenue), "revenue %d", tt.revenue)
	}
}

func TestRevenueBucketLabelsCoverEveryBucket(t *testing.T) {
	seen := map[string]bool{}
	for _, label := range RevenueBucketLabels {
		seen[label] = true
	}
	for _, revenue := range []int64{0, 1, 50_000, 250_000, 1_000_000, 5_000_000} {
		assert.True(t, seen[RevenueBucketFor(revenue)], "bucket for %d missing from labels", revenue)
	}
}
