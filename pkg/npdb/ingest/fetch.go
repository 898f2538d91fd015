package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the IRS SOI bulk-data root.
const DefaultBaseURL = "https://www.irs.gov/pub/irs-soi"

// Regions names the EO BMF partitions published by the IRS.
var Regions = map[string]string{
	"eo1": "Northeast Region",
	"eo2": "Mid-Atlantic and Great Lakes Region",
	"eo3": "Gulf Coast and Pacific Region",
	"eo4": "All Other Areas",
}

// RegionCodes returns the partition identifiers in a stable order.
func RegionCodes() []string {
	return []string{"eo1", "eo2", "eo3", "eo4"}
}

// Fetcher downloads raw EO BMF partitions to local storage.
type Fetcher struct {
	BaseURL string
	Dir     string
	Client  *http.Client
	// Delay is the courtesy pause between partition downloads.
	Delay time.Duration

	log *zap.Logger
}

// NewFetcher creates a fetcher writing into dir. A nil client gets a
// 30-second timeout default.
func NewFetcher(baseURL, dir string, client *http.Client, log *zap.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		BaseURL: baseURL,
		Dir:     dir,
		Client:  client,
		Delay:   time.Second,
		log:     log,
	}
}

// FetchPartition streams one region's CSV to disk and returns the local path.
func (f *Fetcher) FetchPartition(ctx context.Context, region string) (string, error) {
	url := fmt.Sprintf("%s/%s.csv", f.BaseURL, region)
	dest := filepath.Join(f.Dir, fmt.Sprintf("%s_%s.csv", region, time.Now().Format("20060102")))

	f.log.Info("downloading partition", zap.String("region", region), zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", region, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: HTTP %d", region, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	f.log.Info("downloaded partition",
		zap.String("region", region),
		zap.String("path", dest),
		zap.Int64("bytes", written))

	return dest, nil
}

// Pause sleeps for the configured inter-partition delay, returning early if
// the context is cancelled.
func (f *Fetcher) Pause(ctx context.Context) error {
	if f.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
