package memstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store"
)

func int64p(v int64) *int64 { return &v }

func seed(t *testing.T, st store.Store) {
	t.Helper()
	orgs := []store.Organization{
		{EIN: "100000001", Name: "Helping Hands", City: "Oakland", State: "CA", NTEECode: "P20", RevenueAmount: 0},
		{EIN: "100000002", Name: "Sunrise Food Bank", City: "Reno", State: "NV", NTEECode: "K31", RevenueAmount: 40_000},
		{EIN: "100000003", Name: "River Academy", City: "Sacramento", State: "CA", NTEECode: "B300", RevenueAmount: 300_000},
		{EIN: "100000004", Name: "Bay Health Alliance", City: "Oakland", State: "CA", NTEECode: "E20", RevenueAmount: 2_000_000},
	}
	_, err := st.UpsertOrganizations(context.Background(), orgs, 0)
	require.NoError(t, err)
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	st := New()

	n, err := st.UpsertOrganizations(ctx, []store.Organization{
		{EIN: "123456789", Name: "Helping Hands", State: "CA"},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, found, err := st.GetOrganization(ctx, "123456789")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Helping Hands", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, found, err = st.GetOrganization(ctx, "000000000")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReplaceKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	st := New()

	_, err := st.UpsertOrganizations(ctx, []store.Organization{{EIN: "123456789", Name: "Before"}}, 0)
	require.NoError(t, err)
	first, _, err := st.GetOrganization(ctx, "123456789")
	require.NoError(t, err)

	_, err = st.UpsertOrganizations(ctx, []store.Organization{{EIN: "123456789", Name: "After"}}, 0)
	require.NoError(t, err)

	got, found, err := st.GetOrganization(ctx, "123456789")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
}

func TestSearchSemantics(t *testing.T) {
	ctx := context.Background()
	st := New()
	seed(t, st)

	tests := []struct {
		name      string
		req       query.Request
		wantEINs  []string
		wantTotal int64
	}{
		{"no filters revenue-descending", query.Request{Limit: 10},
			[]string{"100000004", "100000003", "100000002", "100000001"}, 4},
		{"limit does not change total", query.Request{Limit: 1},
			[]string{"100000004"}, 4},
		{"offset pages", query.Request{Limit: 2, Offset: 2},
			[]string{"100000002", "100000001"}, 4},
		{"text tokens all required", query.Request{Query: "helping hands", Limit: 10},
			[]string{"100000001"}, 1},
		{"text plus state conjunction misses", query.Request{Query: "Hands", State: "NY", Limit: 10},
			nil, 0},
		{"city substring", query.Request{City: "oakl", Limit: 10},
			[]string{"100000004", "100000001"}, 2},
		{"ntee prefix", query.Request{NTEEPrefix: "B", Limit: 10},
			[]string{"100000003"}, 1},
		{"inclusive revenue bounds", query.Request{MinRevenue: int64p(40_000), MaxRevenue: int64p(300_000), Limit: 10},
			[]string{"100000003", "100000002"}, 2},
		{"offset past end", query.Request{Limit: 10, Offset: 100},
			nil, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, total, err := st.Search(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			var eins []string
			for _, o := range results {
				eins = append(eins, o.EIN)
			}
			assert.Equal(t, tt.wantEINs, eins)
		})
	}
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	st := New()
	seed(t, st)

	stats, err := st.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalOrganizations)
	require.NotEmpty(t, stats.TopStates)
	assert.Equal(t, "CA", stats.TopStates[0].State)
	assert.Equal(t, int64(3), stats.TopStates[0].Count)

	require.Len(t, stats.RevenueDistribution, len(store.RevenueBucketLabels))
	byRange := map[string]int64{}
	for _, rb := range stats.RevenueDistribution {
		byRange[rb.Range] = rb.Count
	}
	assert.Equal(t, int64(1), byRange["Zero"])
	assert.Equal(t, int64(1), byRange["<$50K"])
	assert.Equal(t, int64(0), byRange["$50K-$250K"])
	assert.Equal(t, int64(1), byRange["$250K-$1M"])
	assert.Equal(t, int64(1), byRange["$1M-$5M"])
}

func TestTopStatesCapped(t *testing.T) {
	ctx := context.Background()
	st := New()

	states := []string{"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID"}
	var orgs []store.Organization
	for i, s := range states {
		orgs = append(orgs, store.Organization{EIN: fmt.Sprintf("%09d", i+1), Name: "Org", State: s})
	}
	_, err := st.UpsertOrganizations(ctx, orgs, 0)
	require.NoError(t, err)

	stats, err := st.Statistics(ctx)
	require.NoError(t, err)
	assert.Len(t, stats.TopStates, 10)
}

func TestImportLog(t *testing.T) {
	ctx := context.Background()
	st := New()

	_, found, err := st.LatestImport(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = st.RecordImport(ctx, store.ImportLog{RunID: "run-1", Status: "complete"})
	require.NoError(t, err)
	id, err := st.RecordImport(ctx, store.ImportLog{RunID: "run-2", Status: "partial"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	entry, found, err := st.LatestImport(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "run-2", entry.RunID)
}

func TestFilingsAndPersonnel(t *testing.T) {
	ctx := context.Background()
	st := New()

	f := store.Filing{EIN: "123456789", ObjectID: "obj-1", TaxYear: 2022, TotalRevenue: 100}
	require.NoError(t, st.UpsertFiling(ctx, f))
	f.TotalRevenue = 200
	require.NoError(t, st.UpsertFiling(ctx, f))
	require.NoError(t, st.UpsertFiling(ctx, store.Filing{EIN: "123456789", ObjectID: "obj-2", TaxYear: 2023}))

	filings, err := st.GetFilingsByEIN(ctx, "123456789")
	require.NoError(t, err)
	require.Len(t, filings, 2)
	assert.Equal(t, 2023, filings[0].TaxYear)

	require.NoError(t, st.UpsertPersonnel(ctx, store.Personnel{EIN: "123456789", Name: "A", Compensation: 50}))
	require.NoError(t, st.UpsertPersonnel(ctx, store.Personnel{EIN: "123456789", Name: "B", Compensation: 150}))

	people, err := st.GetPersonnelByEIN(ctx, "123456789")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "B", people[0].Name)
}
