// Package memstore is an in-memory implementation of store.Store, used by
// tests and callers that want the engine without a database file. Search and
// statistics follow the same semantics as the SQLite store, with a naive
// substring full-text match in place of FTS5.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu         sync.RWMutex
	orgs       map[string]store.Organization // keyed by EIN
	filings    map[string]store.Filing       // keyed by object ID
	personnel  []store.Personnel
	imports    []store.ImportLog
	nextFiling int64
	nextPerson int64
	nextImport int64
}

// New creates a new empty in-memory store.
func New() *Store {
	return &Store{
		orgs:    make(map[string]store.Organization),
		filings: make(map[string]store.Filing),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertOrganizations inserts or replaces records keyed by EIN. The batch
// size is irrelevant in memory; the whole input is applied.
func (s *Store) UpsertOrganizations(ctx context.Context, orgs []store.Organization, batchSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, org := range orgs {
		if org.EIN == "" {
			continue
		}
		if existing, ok := s.orgs[org.EIN]; ok {
			org.CreatedAt = existing.CreatedAt
		} else {
			org.CreatedAt = now
		}
		org.LastUpdated = now
		s.orgs[org.EIN] = org
	}
	return len(orgs), nil
}

// GetOrganization returns an organization by exact EIN.
func (s *Store) GetOrganization(ctx context.Context, ein string) (store.Organization, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[ein]
	return org, ok, nil
}

// Search applies the request's filters conjunctively, orders by revenue
// descending, and returns one page plus the exact total count.
func (s *Store) Search(ctx context.Context, req query.Request) ([]store.Organization, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []store.Organization
	for _, org := range s.orgs {
		if matches(org, req) {
			matched = append(matched, org)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].RevenueAmount != matched[j].RevenueAmount {
			return matched[i].RevenueAmount > matched[j].RevenueAmount
		}
		return matched[i].EIN < matched[j].EIN
	})

	total := int64(len(matched))

	start := req.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Limit
	if req.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func matches(org store.Organization, req query.Request) bool {
	if req.HasFullText() && !textMatch(org, req.Tokens()) {
		return false
	}
	if req.State != "" && org.State != req.State {
		return false
	}
	if req.City != "" && !strings.Contains(strings.ToLower(org.City), strings.ToLower(req.City)) {
		return false
	}
	if req.NTEEPrefix != "" && !strings.HasPrefix(org.NTEECode, req.NTEEPrefix) {
		return false
	}
	if req.MinRevenue != nil && org.RevenueAmount < *req.MinRevenue {
		return false
	}
	if req.MaxRevenue != nil && org.RevenueAmount > *req.MaxRevenue {
		return false
	}
	if req.MinAssets != nil && org.AssetAmount < *req.MinAssets {
		return false
	}
	if req.MaxAssets != nil && org.AssetAmount > *req.MaxAssets {
		return false
	}
	return true
}

// textMatch requires every query token to appear in one of the indexed
// fields, mirroring the FTS index's column set and AND semantics.
func textMatch(org store.Organization, tokens []string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		org.EIN, org.Name, org.LegalName, org.City, org.State,
	}, " "))
	for _, tok := range tokens {
		if !strings.Contains(haystack, strings.ToLower(tok)) {
			return false
		}
	}
	return len(tokens) > 0
}

// Statistics computes the grouped counts over everything stored.
func (s *Store) Statistics(ctx context.Context) (store.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := store.Statistics{
		TotalOrganizations: int64(len(s.orgs)),
	}

	stateCounts := make(map[string]int64)
	catCounts := make(map[string]int64)
	bucketCounts := make(map[string]int64)

	for _, org := range s.orgs {
		if org.State != "" {
			stateCounts[org.State]++
		}
		if org.NTEECode != "" {
			catCounts[org.NTEECode[:1]]++
		}
		bucketCounts[store.RevenueBucketFor(org.RevenueAmount)]++
	}

	for state, count := range stateCounts {
		stats.TopStates = append(stats.TopStates, store.StateCount{State: state, Count: count})
	}
	sort.Slice(stats.TopStates, func(i, j int) bool {
		if stats.TopStates[i].Count != stats.TopStates[j].Count {
			return stats.TopStates[i].Count > stats.TopStates[j].Count
		}
		return stats.TopStates[i].State < stats.TopStates[j].State
	})
	if len(stats.TopStates) > 10 {
		stats.TopStates = stats.TopStates[:10]
	}

	for cat, count := range catCounts {
		stats.NTEEDistribution = append(stats.NTEEDistribution, store.CategoryCount{Category: cat, Count: count})
	}
	sort.Slice(stats.NTEEDistribution, func(i, j int) bool {
		if stats.NTEEDistribution[i].Count != stats.NTEEDistribution[j].Count {
			return stats.NTEEDistribution[i].Count > stats.NTEEDistribution[j].Count
		}
		return stats.NTEEDistribution[i].Category < stats.NTEEDistribution[j].Category
	})

	for _, label := range store.RevenueBucketLabels {
		stats.RevenueDistribution = append(stats.RevenueDistribution,
			store.RevenueBucket{Range: label, Count: bucketCounts[label]})
	}

	return stats, nil
}

// UpsertFiling inserts or replaces a filing keyed by object ID.
func (s *Store) UpsertFiling(ctx context.Context, f store.Filing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.filings[f.ObjectID]; ok {
		f.ID = existing.ID
	} else {
		s.nextFiling++
		f.ID = s.nextFiling
	}
	s.filings[f.ObjectID] = f
	return nil
}

// GetFilingsByEIN returns an organization's filings, most recent year first.
func (s *Store) GetFilingsByEIN(ctx context.Context, ein string) ([]store.Filing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filings []store.Filing
	for _, f := range s.filings {
		if f.EIN == ein {
			filings = append(filings, f)
		}
	}
	sort.Slice(filings, func(i, j int) bool {
		return filings[i].TaxYear > filings[j].TaxYear
	})
	return filings, nil
}

// UpsertPersonnel records an individual for an organization.
func (s *Store) UpsertPersonnel(ctx context.Context, p store.Personnel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPerson++
	p.ID = s.nextPerson
	s.personnel = append(s.personnel, p)
	return nil
}

// GetPersonnelByEIN returns the people recorded for an organization.
func (s *Store) GetPersonnelByEIN(ctx context.Context, ein string) ([]store.Personnel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var people []store.Personnel
	for _, p := range s.personnel {
		if p.EIN == ein {
			people = append(people, p)
		}
	}
	sort.Slice(people, func(i, j int) bool {
		return people[i].Compensation > people[j].Compensation
	})
	return people, nil
}

// RecordImport appends an audit row.
func (s *Store) RecordImport(ctx context.Context, entry store.ImportLog) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextImport++
	entry.ID = s.nextImport
	s.imports = append(s.imports, entry)
	return entry.ID, nil
}

// LatestImport returns the most recently recorded audit row.
func (s *Store) LatestImport(ctx context.Context) (store.ImportLog, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.imports) == 0 {
		return store.ImportLog{}, false, nil
	}
	return s.imports[len(s.imports)-1], true, nil
}
