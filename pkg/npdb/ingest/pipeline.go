// Package ingest turns raw EO Business Master File partitions into canonical
// organization records: download, tolerant pipe-delimited decoding, per-row
// normalization, and a run summary.
package ingest

import (
	"context"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/civicdata/npdb/pkg/npdb/store"
)

// Status describes how much of a run's partition set was usable.
type Status string

const (
	// StatusComplete means every partition was fetched and parsed.
	StatusComplete Status = "complete"
	// StatusPartial means at least one partition was fetched, but not all.
	StatusPartial Status = "partial"
	// StatusFailed means no partition could be fetched.
	StatusFailed Status = "failed"
)

// Summary is the audit record of one ingestion run.
type Summary struct {
	RunID            string
	FilesRetrieved   int
	RecordsProcessed int64
	RecordsSkipped   int64
	Errors           int64
	StartedAt        time.Time
	CompletedAt      time.Time
	Duration         time.Duration
	Status           Status
}

// Pipeline orchestrates the ingestion flow:
// fetch partitions → decode rows → normalize records → one combined batch.
// It never commits to storage itself; the caller hands the batch to a Store.
type Pipeline struct {
	fetcher *Fetcher
	regions []string
	log     *zap.Logger
}

// NewPipeline creates an ingestion pipeline over the given partition set.
// Empty regions defaults to the full EO BMF region list.
func NewPipeline(fetcher *Fetcher, regions []string, log *zap.Logger) *Pipeline {
	if len(regions) == 0 {
		regions = RegionCodes()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, regions: regions, log: log}
}

// Run executes one full ingestion pass. A partition that fails to download
// is skipped and tallied; the run carries on with the remaining partitions,
// so partial success is a normal terminal state. The returned batch is never
// nil, and Status says which of "nothing fetched", "some fetched", or
// "everything fetched" happened.
func (p *Pipeline) Run(ctx context.Context) (Summary, []store.Organization, error) {
	summary := Summary{
		RunID:     ulid.Make().String(),
		StartedAt: time.Now(),
	}

	p.log.Info("ingestion run started",
		zap.String("run_id", summary.RunID),
		zap.Strings("regions", p.regions))

	batch := make([]store.Organization, 0)

	for i, region := range p.regions {
		if i > 0 {
			if err := p.fetcher.Pause(ctx); err != nil {
				return p.finish(summary, batch), batch, err
			}
		}

		path, err := p.fetcher.FetchPartition(ctx, region)
		if err != nil {
			if ctx.Err() != nil {
				return p.finish(summary, batch), batch, ctx.Err()
			}
			p.log.Warn("partition skipped", zap.String("region", region), zap.Error(err))
			summary.Errors++
			continue
		}
		summary.FilesRetrieved++

		f, err := os.Open(path)
		if err != nil {
			p.log.Warn("partition unreadable", zap.String("path", path), zap.Error(err))
			summary.Errors++
			continue
		}
		parsed := int64(0)
		res, err := ReadPartition(f, p.log, func(raw RawRow) bool {
			org, ok := ParseRow(raw)
			if !ok {
				return false
			}
			batch = append(batch, org)
			parsed++
			return true
		})
		f.Close()
		if err != nil {
			p.log.Warn("partition unreadable", zap.String("path", path), zap.Error(err))
			summary.Errors++
			continue
		}

		summary.RecordsProcessed += res.Processed
		summary.RecordsSkipped += res.Skipped

		p.log.Info("partition parsed",
			zap.String("region", region),
			zap.Int64("rows", res.Processed),
			zap.Int64("records", parsed),
			zap.Int64("skipped", res.Skipped))
	}

	return p.finish(summary, batch), batch, nil
}

func (p *Pipeline) finish(s Summary, batch []store.Organization) Summary {
	s.CompletedAt = time.Now()
	s.Duration = s.CompletedAt.Sub(s.StartedAt)

	switch {
	case s.FilesRetrieved == 0:
		s.Status = StatusFailed
	case s.FilesRetrieved < len(p.regions):
		s.Status = StatusPartial
	default:
		s.Status = StatusComplete
	}

	p.log.Info("ingestion run finished",
		zap.String("run_id", s.RunID),
		zap.String("status", string(s.Status)),
		zap.Int("files", s.FilesRetrieved),
		zap.Int64("records", int64(len(batch))),
		zap.Int64("skipped", s.RecordsSkipped),
		zap.Int64("errors", s.Errors),
		zap.Duration("duration", s.Duration))

	return s
}
