package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/civicdata/npdb/pkg/npdb/query"
	"github.com/civicdata/npdb/pkg/npdb/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and the schema
// initialized. WAL with synchronous=NORMAL keeps readers available during
// bulk-import writes; a crash may lose the last transactions' durability but
// never corrupts the log.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables, indexes, the full-text shadow table, and the
// triggers that keep it synchronized, if they don't exist yet.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS organizations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ein TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	legal_name TEXT DEFAULT '',
	street TEXT DEFAULT '',
	city TEXT DEFAULT '',
	state TEXT DEFAULT '',
	zip TEXT DEFAULT '',
	country TEXT DEFAULT 'US',

	ntee_code TEXT DEFAULT '',
	ntee_description TEXT DEFAULT '',
	subsection_code TEXT DEFAULT '',
	foundation_code TEXT DEFAULT '',
	organization_code TEXT DEFAULT '',

	asset_amount INTEGER DEFAULT 0,
	income_amount INTEGER DEFAULT 0,
	revenue_amount INTEGER DEFAULT 0,

	tax_exempt_status TEXT DEFAULT '',
	ruling_date TEXT DEFAULT '',
	tax_period TEXT DEFAULT '',
	revocation_date TEXT DEFAULT '',

	group_exemption TEXT DEFAULT '',
	deductibility TEXT DEFAULT '',
	activity_codes TEXT DEFAULT '',

	website TEXT DEFAULT '',
	email TEXT DEFAULT '',
	phone TEXT DEFAULT '',

	data_source TEXT DEFAULT '',
	last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_org_ein ON organizations(ein);
CREATE INDEX IF NOT EXISTS idx_org_name ON organizations(name);
CREATE INDEX IF NOT EXISTS idx_org_state ON organizations(state);
CREATE INDEX IF NOT EXISTS idx_org_city ON organizations(city);
CREATE INDEX IF NOT EXISTS idx_org_ntee ON organizations(ntee_code);
CREATE INDEX IF NOT EXISTS idx_org_revenue ON organizations(revenue_amount);
CREATE INDEX IF NOT EXISTS idx_org_assets ON organizations(asset_amount);

CREATE VIRTUAL TABLE IF NOT EXISTS organizations_fts USING fts5(
	ein,
	name,
	legal_name,
	city,
	state,
	content=organizations,
	content_rowid=id,
	tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS org_fts_insert
AFTER INSERT ON organizations
BEGIN
	INSERT INTO organizations_fts(rowid, ein, name, legal_name, city, state)
	VALUES (new.id, new.ein, new.name, new.legal_name, new.city, new.state);
END;

CREATE TRIGGER IF NOT EXISTS org_fts_update
AFTER UPDATE ON organizations
BEGIN
	INSERT INTO organizations_fts(organizations_fts, rowid, ein, name, legal_name, city, state)
	VALUES ('delete', old.id, old.ein, old.name, old.legal_name, old.city, old.state);
	INSERT INTO organizations_fts(rowid, ein, name, legal_name, city, state)
	VALUES (new.id, new.ein, new.name, new.legal_name, new.city, new.state);
END;

CREATE TRIGGER IF NOT EXISTS org_fts_delete
AFTER DELETE ON organizations
BEGIN
	INSERT INTO organizations_fts(organizations_fts, rowid, ein, name, legal_name, city, state)
	VALUES ('delete', old.id, old.ein, old.name, old.legal_name, old.city, old.state);
END;

CREATE TABLE IF NOT EXISTS filings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ein TEXT NOT NULL,
	object_id TEXT UNIQUE,
	return_id TEXT DEFAULT '',

	form_type TEXT DEFAULT '',
	tax_year INTEGER DEFAULT 0,
	filing_date TEXT DEFAULT '',

	total_revenue INTEGER DEFAULT 0,
	total_expenses INTEGER DEFAULT 0,
	total_assets INTEGER DEFAULT 0,
	total_liabilities INTEGER DEFAULT 0,
	net_assets INTEGER DEFAULT 0,

	xml_url TEXT DEFAULT '',
	pdf_url TEXT DEFAULT '',
	processed BOOLEAN DEFAULT 0,

	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_filing_ein ON filings(ein);

CREATE TABLE IF NOT EXISTS personnel (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ein TEXT NOT NULL,
	filing_id INTEGER DEFAULT 0,

	name TEXT NOT NULL,
	title TEXT DEFAULT '',
	compensation INTEGER DEFAULT 0,
	hours_per_week REAL DEFAULT 0,

	is_officer BOOLEAN DEFAULT 0,
	is_director BOOLEAN DEFAULT 0,
	is_trustee BOOLEAN DEFAULT 0,
	is_key_employee BOOLEAN DEFAULT 0,

	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_personnel_ein ON personnel(ein);

CREATE TABLE IF NOT EXISTS import_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT DEFAULT '',
	file_name TEXT DEFAULT '',
	file_type TEXT DEFAULT '',
	records_processed INTEGER DEFAULT 0,
	records_imported INTEGER DEFAULT 0,
	errors INTEGER DEFAULT 0,
	started_at TIMESTAMP,
	completed_at TIMESTAMP,
	status TEXT DEFAULT '',
	error_details TEXT DEFAULT ''
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// orgColumns is the column list shared by every organization select; its
// order must match scanOrganization.
const orgColumns = `ein, name, legal_name, street, city, state, zip, country,
	ntee_code, ntee_description, subsection_code, foundation_code, organization_code,
	asset_amount, income_amount, revenue_amount,
	tax_exempt_status, ruling_date, tax_period, revocation_date,
	group_exemption, deductibility, activity_codes,
	website, email, phone,
	data_source, last_updated, created_at`

const upsertOrgStmt = `
INSERT INTO organizations
	(ein, name, legal_name, street, city, state, zip, country,
	 ntee_code, ntee_description, subsection_code, foundation_code, organization_code,
	 asset_amount, income_amount, revenue_amount,
	 tax_exempt_status, ruling_date, tax_period, revocation_date,
	 group_exemption, deductibility, activity_codes,
	 website, email, phone, data_source)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ein) DO UPDATE SET
	name=excluded.name,
	legal_name=excluded.legal_name,
	street=excluded.street,
	city=excluded.city,
	state=excluded.state,
	zip=excluded.zip,
	country=excluded.country,
	ntee_code=excluded.ntee_code,
	ntee_description=excluded.ntee_description,
	subsection_code=excluded.subsection_code,
	foundation_code=excluded.foundation_code,
	organization_code=excluded.organization_code,
	asset_amount=excluded.asset_amount,
	income_amount=excluded.income_amount,
	revenue_amount=excluded.revenue_amount,
	tax_exempt_status=excluded.tax_exempt_status,
	ruling_date=excluded.ruling_date,
	tax_period=excluded.tax_period,
	revocation_date=excluded.revocation_date,
	group_exemption=excluded.group_exemption,
	deductibility=excluded.deductibility,
	activity_codes=excluded.activity_codes,
	website=excluded.website,
	email=excluded.email,
	phone=excluded.phone,
	data_source=excluded.data_source,
	last_updated=CURRENT_TIMESTAMP;
`

// UpsertOrganizations bulk-upserts records in independent batches. Each batch
// commits in its own transaction, so a failing batch leaves earlier batches
// intact and the count of records persisted so far is returned with the
// error. Duplicate EINs fully replace the existing row, and the FTS triggers
// mirror every change within the same transaction.
func (s *sqliteStore) UpsertOrganizations(ctx context.Context, orgs []store.Organization, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	total := 0
	for start := 0; start < len(orgs); start += batchSize {
		end := start + batchSize
		if end > len(orgs) {
			end = len(orgs)
		}

		if err := s.upsertBatch(ctx, orgs[start:end]); err != nil {
			return total, fmt.Errorf("batch at offset %d: %w", start, err)
		}
		total += end - start
	}

	return total, nil
}

func (s *sqliteStore) upsertBatch(ctx context.Context, batch []store.Organization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertOrgStmt)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, org := range batch {
		if _, err := stmt.ExecContext(ctx,
			org.EIN, org.Name, org.LegalName, org.Street, org.City, org.State, org.Zip, org.Country,
			org.NTEECode, org.NTEEDescription, org.SubsectionCode, org.FoundationCode, org.OrganizationCode,
			org.AssetAmount, org.IncomeAmount, org.RevenueAmount,
			org.TaxExemptStatus, org.RulingDate, org.TaxPeriod, org.RevocationDate,
			org.GroupExemption, org.Deductibility, org.ActivityCodes,
			org.Website, org.Email, org.Phone, org.DataSource,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOrganization retrieves a single organization by exact EIN.
func (s *sqliteStore) GetOrganization(ctx context.Context, ein string) (store.Organization, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE ein = ?`, ein)

	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return store.Organization{}, false, nil
	}
	if err != nil {
		return store.Organization{}, false, err
	}
	return org, true, nil
}

// Search runs a compound filtered query and returns one page of results plus
// the exact total count over the same predicates. The request must already
// be validated.
func (s *sqliteStore) Search(ctx context.Context, req query.Request) ([]store.Organization, int64, error) {
	var (
		from  = `FROM organizations o`
		conds []string
		args  []interface{}
	)

	if req.HasFullText() {
		from = `FROM organizations o JOIN organizations_fts fts ON o.id = fts.rowid`
		conds = append(conds, `fts.organizations_fts MATCH ?`)
		args = append(args, req.MatchExpr())
	}
	if req.State != "" {
		conds = append(conds, `o.state = ?`)
		args = append(args, req.State)
	}
	if req.City != "" {
		conds = append(conds, `o.city LIKE ?`)
		args = append(args, "%"+req.City+"%")
	}
	if req.NTEEPrefix != "" {
		conds = append(conds, `o.ntee_code LIKE ?`)
		args = append(args, req.NTEEPrefix+"%")
	}
	if req.MinRevenue != nil {
		conds = append(conds, `o.revenue_amount >= ?`)
		args = append(args, *req.MinRevenue)
	}
	if req.MaxRevenue != nil {
		conds = append(conds, `o.revenue_amount <= ?`)
		args = append(args, *req.MaxRevenue)
	}
	if req.MinAssets != nil {
		conds = append(conds, `o.asset_amount >= ?`)
		args = append(args, *req.MinAssets)
	}
	if req.MaxAssets != nil {
		conds = append(conds, `o.asset_amount <= ?`)
		args = append(args, *req.MaxAssets)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// The count runs over the same predicates, independent of pagination.
	var total int64
	countQuery := `SELECT COUNT(*) ` + from + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	selectQuery := `SELECT ` + qualifyColumns("o") + ` ` + from + where +
		` ORDER BY o.revenue_amount DESC, o.ein ASC LIMIT ? OFFSET ?`
	args = append(args, req.Limit, req.Offset)

	rows, err := s.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []store.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, org)
	}
	return results, total, rows.Err()
}

// Statistics computes the grouped-count views over the full corpus.
func (s *sqliteStore) Statistics(ctx context.Context) (store.Statistics, error) {
	var stats store.Statistics

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM organizations`).Scan(&stats.TotalOrganizations); err != nil {
		return store.Statistics{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT state, COUNT(*) as count
FROM organizations
WHERE state != ''
GROUP BY state
ORDER BY count DESC
LIMIT 10;
`)
	if err != nil {
		return store.Statistics{}, err
	}
	for rows.Next() {
		var sc store.StateCount
		if err := rows.Scan(&sc.State, &sc.Count); err != nil {
			rows.Close()
			return store.Statistics{}, err
		}
		stats.TopStates = append(stats.TopStates, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Statistics{}, err
	}

	rows, err = s.db.QueryContext(ctx, `
SELECT SUBSTR(ntee_code, 1, 1) as category, COUNT(*) as count
FROM organizations
WHERE ntee_code != ''
GROUP BY SUBSTR(ntee_code, 1, 1)
ORDER BY count DESC;
`)
	if err != nil {
		return store.Statistics{}, err
	}
	for rows.Next() {
		var cc store.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			rows.Close()
			return store.Statistics{}, err
		}
		stats.NTEEDistribution = append(stats.NTEEDistribution, cc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return store.Statistics{}, err
	}

	buckets, err := s.revenueDistribution(ctx)
	if err != nil {
		return store.Statistics{}, err
	}
	stats.RevenueDistribution = buckets

	return stats, nil
}

// revenueDistribution returns the fixed histogram with every bucket present,
// zero-filled where the corpus has no rows in a range.
func (s *sqliteStore) revenueDistribution(ctx context.Context) ([]store.RevenueBucket, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT
	CASE
		WHEN revenue_amount <= 0 THEN 'Zero'
		WHEN revenue_amount < 50000 THEN '<$50K'
		WHEN revenue_amount < 250000 THEN '$50K-$250K'
		WHEN revenue_amount < 1000000 THEN '$250K-$1M'
		WHEN revenue_amount < 5000000 THEN '$1M-$5M'
		ELSE '>$5M'
	END as bucket,
	COUNT(*) as count
FROM organizations
GROUP BY bucket;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var count int64
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		counts[label] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets := make([]store.RevenueBucket, 0, len(store.RevenueBucketLabels))
	for _, label := range store.RevenueBucketLabels {
		buckets = append(buckets, store.RevenueBucket{Range: label, Count: counts[label]})
	}
	return buckets, nil
}

// UpsertFiling inserts or replaces a filing, keyed by its external object ID.
func (s *sqliteStore) UpsertFiling(ctx context.Context, f store.Filing) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO filings
	(ein, object_id, return_id, form_type, tax_year, filing_date,
	 total_revenue, total_expenses, total_assets, total_liabilities, net_assets,
	 xml_url, pdf_url, processed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(object_id) DO UPDATE SET
	ein=excluded.ein,
	return_id=excluded.return_id,
	form_type=excluded.form_type,
	tax_year=excluded.tax_year,
	filing_date=excluded.filing_date,
	total_revenue=excluded.total_revenue,
	total_expenses=excluded.total_expenses,
	total_assets=excluded.total_assets,
	total_liabilities=excluded.total_liabilities,
	net_assets=excluded.net_assets,
	xml_url=excluded.xml_url,
	pdf_url=excluded.pdf_url,
	processed=excluded.processed;
`, f.EIN, f.ObjectID, f.ReturnID, f.FormType, f.TaxYear, f.FilingDate,
		f.TotalRevenue, f.TotalExpenses, f.TotalAssets, f.TotalLiabilities, f.NetAssets,
		f.XMLURL, f.PDFURL, f.Processed)
	return err
}

// GetFilingsByEIN returns an organization's filings, most recent tax year first.
func (s *sqliteStore) GetFilingsByEIN(ctx context.Context, ein string) ([]store.Filing, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, ein, object_id, return_id, form_type, tax_year, filing_date,
	total_revenue, total_expenses, total_assets, total_liabilities, net_assets,
	xml_url, pdf_url, processed
FROM filings
WHERE ein = ?
ORDER BY tax_year DESC;
`, ein)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filings []store.Filing
	for rows.Next() {
		var f store.Filing
		if err := rows.Scan(&f.ID, &f.EIN, &f.ObjectID, &f.ReturnID, &f.FormType,
			&f.TaxYear, &f.FilingDate, &f.TotalRevenue, &f.TotalExpenses,
			&f.TotalAssets, &f.TotalLiabilities, &f.NetAssets,
			&f.XMLURL, &f.PDFURL, &f.Processed); err != nil {
			return nil, err
		}
		filings = append(filings, f)
	}
	return filings, rows.Err()
}

// UpsertPersonnel inserts an individual's record for an organization.
func (s *sqliteStore) UpsertPersonnel(ctx context.Context, p store.Personnel) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO personnel
	(ein, filing_id, name, title, compensation, hours_per_week,
	 is_officer, is_director, is_trustee, is_key_employee)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, p.EIN, p.FilingID, p.Name, p.Title, p.Compensation, p.HoursPerWeek,
		p.IsOfficer, p.IsDirector, p.IsTrustee, p.IsKeyEmployee)
	return err
}

// GetPersonnelByEIN returns the people recorded for an organization.
func (s *sqliteStore) GetPersonnelByEIN(ctx context.Context, ein string) ([]store.Personnel, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, ein, filing_id, name, title, compensation, hours_per_week,
	is_officer, is_director, is_trustee, is_key_employee
FROM personnel
WHERE ein = ?
ORDER BY compensation DESC;
`, ein)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []store.Personnel
	for rows.Next() {
		var p store.Personnel
		if err := rows.Scan(&p.ID, &p.EIN, &p.FilingID, &p.Name, &p.Title,
			&p.Compensation, &p.HoursPerWeek,
			&p.IsOfficer, &p.IsDirector, &p.IsTrustee, &p.IsKeyEmployee); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// RecordImport writes one audit row for an ingestion run.
func (s *sqliteStore) RecordImport(ctx context.Context, entry store.ImportLog) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO import_log
	(run_id, file_name, file_type, records_processed, records_imported,
	 errors, started_at, completed_at, status, error_details)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, entry.RunID, entry.FileName, entry.FileType, entry.RecordsProcessed,
		entry.RecordsImported, entry.Errors,
		entry.StartedAt.UTC().Format(time.RFC3339),
		entry.CompletedAt.UTC().Format(time.RFC3339),
		entry.Status, entry.ErrorDetails)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LatestImport returns the most recent import audit row.
func (s *sqliteStore) LatestImport(ctx context.Context) (store.ImportLog, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, run_id, file_name, file_type, records_processed, records_imported,
	errors, started_at, completed_at, status, error_details
FROM import_log
ORDER BY id DESC
LIMIT 1;
`)

	var (
		entry     store.ImportLog
		started   string
		completed string
	)
	err := row.Scan(&entry.ID, &entry.RunID, &entry.FileName, &entry.FileType,
		&entry.RecordsProcessed, &entry.RecordsImported, &entry.Errors,
		&started, &completed, &entry.Status, &entry.ErrorDetails)
	if err == sql.ErrNoRows {
		return store.ImportLog{}, false, nil
	}
	if err != nil {
		return store.ImportLog{}, false, err
	}

	entry.StartedAt = parseTime(started)
	entry.CompletedAt = parseTime(completed)
	return entry, true, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrganization(row scanner) (store.Organization, error) {
	var (
		org         store.Organization
		lastUpdated string
		createdAt   string
	)
	err := row.Scan(
		&org.EIN, &org.Name, &org.LegalName, &org.Street, &org.City, &org.State, &org.Zip, &org.Country,
		&org.NTEECode, &org.NTEEDescription, &org.SubsectionCode, &org.FoundationCode, &org.OrganizationCode,
		&org.AssetAmount, &org.IncomeAmount, &org.RevenueAmount,
		&org.TaxExemptStatus, &org.RulingDate, &org.TaxPeriod, &org.RevocationDate,
		&org.GroupExemption, &org.Deductibility, &org.ActivityCodes,
		&org.Website, &org.Email, &org.Phone,
		&org.DataSource, &lastUpdated, &createdAt,
	)
	if err != nil {
		return store.Organization{}, err
	}

	org.LastUpdated = parseTime(lastUpdated)
	org.CreatedAt = parseTime(createdAt)
	return org, nil
}

// parseTime accepts both RFC3339 and SQLite's CURRENT_TIMESTAMP format.
func parseTime(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", val); err == nil {
		return t
	}
	return time.Time{}
}

func qualifyColumns(alias string) string {
	cols := strings.Split(orgColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
