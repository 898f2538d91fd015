package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// progressEvery is the row cadence for progress logging while parsing.
const progressEvery = 10_000

// PartitionResult tallies one partition's parse outcome.
type PartitionResult struct {
	Processed int64 // rows read, including dropped ones
	Skipped   int64 // rows dropped (missing EIN or malformed)
}

// ReadPartition decodes one pipe-delimited EO BMF partition and invokes fn
// for every row. fn reports whether the row was usable; unusable rows are
// added to the skip tally.
//
// The header row binds column positions; unknown columns are ignored and
// missing ones stay empty. Invalid UTF-8 is replaced rather than failing the
// file, and malformed rows are counted and skipped, never propagated.
func ReadPartition(r io.Reader, log *zap.Logger, fn func(RawRow) bool) (PartitionResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// Replace invalid byte sequences with U+FFFD instead of erroring out.
	decoded := transform.NewReader(r, unicode.UTF8.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.Comma = '|'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return PartitionResult{}, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(*RawRow, string), len(header))
	for i, name := range header {
		setters[i] = rawRowFields[name]
	}

	var res PartitionResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Row-level damage only; keep going with the rest of the file.
			res.Processed++
			res.Skipped++
			continue
		}

		res.Processed++
		var raw RawRow
		for i, val := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&raw, val)
			}
		}

		if !fn(raw) {
			res.Skipped++
		}

		if res.Processed%progressEvery == 0 {
			log.Info("parsing partition", zap.Int64("rows", res.Processed))
		}
	}

	return res, nil
}
