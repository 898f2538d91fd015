// Package npdb is the nonprofit data engine facade: one guarded ingestion
// entry point plus the search, lookup, and statistics surface consumed by
// transport layers.
package npdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/civicdata/npdb/pkg/npdb/ingest"
	"github.com/civicdata/npdb/pkg/npdb/internalerr"
	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store"
)

// Options configures a Service instance.
type Options struct {
	Store    store.Store
	Pipeline *ingest.Pipeline
	Logger   *zap.Logger
	// BatchSize for bulk upserts during ingestion; <=0 uses the store default.
	BatchSize int
}

// Service is the engine facade. Construct it explicitly and close it when
// done; there are no process-wide instances.
type Service struct {
	store     store.Store
	pipeline  *ingest.Pipeline
	log       *zap.Logger
	batchSize int

	mu  sync.Mutex
	job JobStatus
}

// JobStatus is the queryable state of the ingestion job.
type JobStatus struct {
	Running     bool
	StartedAt   time.Time
	LastSummary *ingest.Summary
}

// New creates a Service with the given dependencies.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     opts.Store,
		pipeline:  opts.Pipeline,
		log:       log,
		batchSize: opts.BatchSize,
	}
}

// Close shuts down the service and its store.
func (s *Service) Close() error {
	return s.store.Close()
}

// RunIngestion executes one full ingestion run: fetch and parse all
// partitions, persist the batch, and write an import audit row. At most one
// run is active at a time; a second concurrent call fails with
// internalerr.ErrImportInFlight instead of queueing.
func (s *Service) RunIngestion(ctx context.Context) (ingest.Summary, error) {
	if s.pipeline == nil {
		return ingest.Summary{}, fmt.Errorf("%w: no pipeline configured", internalerr.ErrInvalidConfig)
	}

	s.mu.Lock()
	if s.job.Running {
		s.mu.Unlock()
		return ingest.Summary{}, internalerr.ErrImportInFlight
	}
	s.job.Running = true
	s.job.StartedAt = time.Now()
	s.mu.Unlock()

	summary, batch, runErr := s.pipeline.Run(ctx)

	imported := 0
	var persistErr error
	if len(batch) > 0 {
		imported, persistErr = s.store.UpsertOrganizations(ctx, batch, s.batchSize)
		if persistErr != nil {
			s.log.Error("bulk upsert failed",
				zap.String("run_id", summary.RunID),
				zap.Int("imported", imported),
				zap.Error(persistErr))
		}
	}

	s.recordImport(ctx, summary, int64(imported), runErr, persistErr)

	s.mu.Lock()
	s.job.Running = false
	s.job.LastSummary = &summary
	s.mu.Unlock()

	if runErr != nil {
		return summary, runErr
	}
	return summary, persistErr
}

// recordImport writes the audit trail row for a run. Audit failures are
// logged, not surfaced; they must not turn a successful import into an error.
func (s *Service) recordImport(ctx context.Context, summary ingest.Summary, imported int64, runErr, persistErr error) {
	status := string(summary.Status)
	detail := ""
	if runErr != nil {
		detail = runErr.Error()
	} else if persistErr != nil {
		status = "persist_error"
		detail = persistErr.Error()
	}

	entry := store.ImportLog{
		RunID:            summary.RunID,
		FileName:         fmt.Sprintf("eo_bmf_%s", summary.StartedAt.Format("20060102")),
		FileType:         "eo_bmf",
		RecordsProcessed: summary.RecordsProcessed,
		RecordsImported:  imported,
		Errors:           summary.Errors + summary.RecordsSkipped,
		StartedAt:        summary.StartedAt,
		CompletedAt:      summary.CompletedAt,
		Status:           status,
		ErrorDetails:     detail,
	}

	if _, err := s.store.RecordImport(ctx, entry); err != nil {
		s.log.Warn("import log write failed", zap.String("run_id", summary.RunID), zap.Error(err))
	}
}

// ImportStatus reports whether an ingestion run is active and the summary of
// the last completed run.
func (s *Service) ImportStatus() JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// SearchResult is one page of organizations plus the exact total count over
// the full predicate set.
type SearchResult struct {
	Organizations []store.Organization
	Total         int64
	Limit         int
	Offset        int
}

// Search validates the request and runs it against the store. Validation
// failures carry internalerr.ErrInvalidInput and never reach storage.
func (s *Service) Search(ctx context.Context, req query.Request) (SearchResult, error) {
	if err := req.Validate(); err != nil {
		return SearchResult{}, err
	}

	orgs, total, err := s.store.Search(ctx, req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	return SearchResult{
		Organizations: orgs,
		Total:         total,
		Limit:         req.Limit,
		Offset:        req.Offset,
	}, nil
}

// GetOrganization returns a single organization by EIN. A miss is
// (zero, false, nil), not an error.
func (s *Service) GetOrganization(ctx context.Context, ein string) (store.Organization, bool, error) {
	if ein == "" {
		return store.Organization{}, false, fmt.Errorf("%w: ein must not be empty", internalerr.ErrInvalidInput)
	}
	return s.store.GetOrganization(ctx, ein)
}

// Statistics returns the grouped-count views, with NTEE categories annotated
// with their human-readable names.
func (s *Service) Statistics(ctx context.Context) (store.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return store.Statistics{}, fmt.Errorf("statistics: %w", err)
	}

	for i := range stats.NTEEDistribution {
		stats.NTEEDistribution[i].Name = ingest.CategoryName(stats.NTEEDistribution[i].Category)
	}
	return stats, nil
}

// BulkUpsert persists an out-of-band batch of organization records.
func (s *Service) BulkUpsert(ctx context.Context, orgs []store.Organization, batchSize int) (int, error) {
	return s.store.UpsertOrganizations(ctx, orgs, batchSize)
}
