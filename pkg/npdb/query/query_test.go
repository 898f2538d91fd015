package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/npdb/pkg/npdb/internalerr"
)

func int64p(v int64) *int64 { return &v }

func TestValidateDefaultsLimit(t *testing.T) {
	req := Request{}
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultLimit, req.Limit)
}

func TestValidateRejectsBadPagination(t *testing.T) {
	req := Request{Limit: MaxLimit + 1}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)

	req = Request{Limit: -5}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)

	req = Request{Offset: -1}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)
}

func TestValidateRejectsInvertedRanges(t *testing.T) {
	req := Request{MinRevenue: int64p(100), MaxRevenue: int64p(50)}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)

	req = Request{MinAssets: int64p(100), MaxAssets: int64p(50)}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)

	req = Request{MinRevenue: int64p(-1)}
	assert.ErrorIs(t, req.Validate(), internalerr.ErrInvalidInput)
}

func TestValidateAcceptsEqualBounds(t *testing.T) {
	req := Request{MinRevenue: int64p(1000), MaxRevenue: int64p(1000)}
	assert.NoError(t, req.Validate())
}

func TestMatchExprQuotesTokens(t *testing.T) {
	assert.Equal(t, `"helping" "hands"`, Request{Query: "helping hands"}.MatchExpr())
	assert.Equal(t, `"food-bank"`, Request{Query: " food-bank "}.MatchExpr())
	// FTS operators and quotes are neutralized, not interpreted.
	assert.Equal(t, `"NEAR" "OR"`, Request{Query: "NEAR OR"}.MatchExpr())
	assert.Equal(t, `"say""cheese"""`, Request{Query: `say"cheese"`}.MatchExpr())
	assert.Equal(t, "", Request{Query: "   "}.MatchExpr())
}

func TestHasFullText(t *testing.T) {
	assert.True(t, Request{Query: "hands"}.HasFullText())
	assert.False(t, Request{Query: "  "}.HasFullText())
	assert.False(t, Request{}.HasFullText())
}
