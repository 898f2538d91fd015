package store

import (
	"context"
	"time"

	"github.com/civicdata/npdb/pkg/npdb/query"
)

// Store is the main interface for persisting and querying nonprofit data
type Store interface {
	Close() error

	// Organizations
	UpsertOrganizations(ctx context.Context, orgs []Organization, batchSize int) (int, error)
	GetOrganization(ctx context.Context, ein string) (Organization, bool, error)
	Search(ctx context.Context, req query.Request) ([]Organization, int64, error)
	Statistics(ctx context.Context) (Statistics, error)

	// Filings & personnel (denormalized companions, keyed back by EIN)
	UpsertFiling(ctx context.Context, f Filing) error
	GetFilingsByEIN(ctx context.Context, ein string) ([]Filing, error)
	UpsertPersonnel(ctx context.Context, p Personnel) error
	GetPersonnelByEIN(ctx context.Context, ein string) ([]Personnel, error)

	// Import audit trail
	RecordImport(ctx context.Context, entry ImportLog) (int64, error)
	LatestImport(ctx context.Context) (ImportLog, bool, error)
}

// Organization is one exempt organization from the EO Business Master File,
// uniquely identified by EIN.
type Organization struct {
	EIN       string
	Name      string
	LegalName string
	Street    string
	City      string
	State     string
	Zip       string
	Country   string

	// Classification
	NTEECode         string
	NTEEDescription  string
	SubsectionCode   string
	FoundationCode   string
	OrganizationCode string

	// Financial (normalized from BMF amount codes)
	AssetAmount   int64
	IncomeAmount  int64
	RevenueAmount int64

	// Status
	TaxExemptStatus string
	RulingDate      string
	TaxPeriod       string
	RevocationDate  string

	// Additional BMF attributes
	GroupExemption string
	Deductibility  string
	ActivityCodes  string

	// Contact
	Website string
	Email   string
	Phone   string

	DataSource  string
	LastUpdated time.Time
	CreatedAt   time.Time
}

// Filing is a per-year Form 990 disclosure linked to an organization by EIN.
type Filing struct {
	ID       int64
	EIN      string
	ObjectID string
	ReturnID string

	FormType   string
	TaxYear    int
	FilingDate string

	TotalRevenue     int64
	TotalExpenses    int64
	TotalAssets      int64
	TotalLiabilities int64
	NetAssets        int64

	XMLURL    string
	PDFURL    string
	Processed bool

	CreatedAt time.Time
}

// Personnel is a named individual associated with an organization and
// optionally a specific filing. Role flags are non-exclusive.
type Personnel struct {
	ID       int64
	EIN      string
	FilingID int64

	Name         string
	Title        string
	Compensation int64
	HoursPerWeek float64

	IsOfficer     bool
	IsDirector    bool
	IsTrustee     bool
	IsKeyEmployee bool

	CreatedAt time.Time
}

// ImportLog is one row of the import audit trail, written per ingestion run.
type ImportLog struct {
	ID               int64
	RunID            string
	FileName         string
	FileType         string
	RecordsProcessed int64
	RecordsImported  int64
	Errors           int64
	StartedAt        time.Time
	CompletedAt      time.Time
	Status           string
	ErrorDetails     string
}

// StateCount is one state's organization count.
type StateCount struct {
	State string
	Count int64
}

// CategoryCount is the organization count for one top-level NTEE category.
type CategoryCount struct {
	Category string
	Name     string
	Count    int64
}

// RevenueBucket is one labeled slot of the fixed revenue histogram.
type RevenueBucket struct {
	Range string
	Count int64
}

// Statistics is the grouped-count view over the full corpus.
type Statistics struct {
	TotalOrganizations  int64
	TopStates           []StateCount
	NTEEDistribution    []CategoryCount
	RevenueDistribution []RevenueBucket
}

// RevenueBucketLabels is the fixed, ordered histogram layout. Boundaries are
// inclusive-lower, exclusive-upper except the top bucket.
var RevenueBucketLabels = []string{"Zero", "<$50K", "$50K-$250K", "$250K-$1M", "$1M-$5M", ">$5M"}

// RevenueBucketFor returns the histogram label for a revenue amount.
func RevenueBucketFor(revenue int64) string {
	switch {
	case revenue <= 0:
		return "Zero"
	case revenue < 50_000:
		return "<$50K"
	case revenue < 250_000:
		return "$50K-$250K"
	case revenue < 1_000_000:
		return "$250K-$1M"
	case revenue < 5_000_000:
		return "$1M-$5M"
	default:
		return ">$5M"
	}
}
