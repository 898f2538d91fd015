package npdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/npdb/pkg/npdb/ingest"
	"github.com/civicdata/npdb/pkg/npdb/internalerr"
	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store"
	"github.com/civicdata/npdb/pkg/npdb/store/memstore"
)

const partitionBody = "EIN|NAME|CITY|STATE|NTEE_CD|ASSET_AMT|INCOME_AMT|REVENUE_AMT\n" +
	"123456789|Helping Hands|Oakland|CA|P20|5|4|4\n" +
	"|No EIN Org|Reno|NV|K31|1|1|1\n" +
	"987654321|River Academy|Sacramento|CA|B300|6|5|5\n"

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fetcher := ingest.NewFetcher(srv.URL, t.TempDir(), srv.Client(), nil)
	fetcher.Delay = 0
	pipeline := ingest.NewPipeline(fetcher, []string{"eo1"}, nil)

	return New(Options{
		Store:    memstore.New(),
		Pipeline: pipeline,
	})
}

func TestRunIngestionPersistsAndLogs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(partitionBody))
	})

	summary, err := svc.RunIngestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusComplete, summary.Status)
	assert.Equal(t, int64(3), summary.RecordsProcessed)
	assert.Equal(t, int64(1), summary.RecordsSkipped)

	org, found, err := svc.GetOrganization(ctx, "123456789")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Helping Hands", org.Name)
	assert.Equal(t, int64(375_000), org.AssetAmount)

	status := svc.ImportStatus()
	assert.False(t, status.Running)
	require.NotNil(t, status.LastSummary)
	assert.Equal(t, summary.RunID, status.LastSummary.RunID)
}

func TestRunIngestionWritesAuditRow(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(partitionBody))
	}))
	t.Cleanup(srv.Close)

	fetcher := ingest.NewFetcher(srv.URL, t.TempDir(), srv.Client(), nil)
	fetcher.Delay = 0
	svc := New(Options{
		Store:    st,
		Pipeline: ingest.NewPipeline(fetcher, []string{"eo1"}, nil),
	})

	summary, err := svc.RunIngestion(ctx)
	require.NoError(t, err)

	entry, found, err := st.LatestImport(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, summary.RunID, entry.RunID)
	assert.Equal(t, "eo_bmf", entry.FileType)
	assert.Equal(t, "complete", entry.Status)
	assert.Equal(t, int64(2), entry.RecordsImported)
	assert.Equal(t, int64(1), entry.Errors)
}

func TestRunIngestionSingleFlight(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(partitionBody))
	})

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunIngestion(ctx)
		done <- err
	}()

	// Wait until the first run registers as active.
	deadline := time.After(5 * time.Second)
	for !svc.ImportStatus().Running {
		select {
		case <-deadline:
			t.Fatal("first run never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, err := svc.RunIngestion(ctx)
	assert.ErrorIs(t, err, internalerr.ErrImportInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.ImportStatus().Running)

	// The guard is released; a subsequent run is accepted.
	_, err = svc.RunIngestion(ctx)
	assert.NoError(t, err)
}

func TestRunIngestionWithoutPipeline(t *testing.T) {
	svc := New(Options{Store: memstore.New()})

	_, err := svc.RunIngestion(context.Background())
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestSearchValidatesBeforeStore(t *testing.T) {
	svc := New(Options{Store: memstore.New()})

	_, err := svc.Search(context.Background(), query.Request{Limit: 9999})
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestSearchDefaultsApplied(t *testing.T) {
	ctx := context.Background()
	svc := New(Options{Store: memstore.New()})

	_, err := svc.BulkUpsert(ctx, []store.Organization{
		{EIN: "123456789", Name: "Helping Hands", State: "CA"},
	}, 0)
	require.NoError(t, err)

	res, err := svc.Search(ctx, query.Request{})
	require.NoError(t, err)
	assert.Equal(t, query.DefaultLimit, res.Limit)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Organizations, 1)
}

func TestGetOrganizationRejectsEmptyEIN(t *testing.T) {
	svc := New(Options{Store: memstore.New()})

	_, _, err := svc.GetOrganization(context.Background(), "")
	assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestStatisticsAnnotatesCategoryNames(t *testing.T) {
	ctx := context.Background()
	svc := New(Options{Store: memstore.New()})

	_, err := svc.BulkUpsert(ctx, []store.Organization{
		{EIN: "100000001", Name: "River Academy", NTEECode: "B300"},
		{EIN: "100000002", Name: "Bay Health Alliance", NTEECode: "E20"},
	}, 0)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)

	names := map[string]string{}
	for _, cc := range stats.NTEEDistribution {
		names[cc.Category] = cc.Name
	}
	assert.Equal(t, "Education", names["B"])
	assert.Equal(t, "Health Care", names["E"])
}
