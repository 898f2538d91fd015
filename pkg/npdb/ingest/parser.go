package ingest

import (
	"strings"

	"github.com/civicdata/npdb/pkg/npdb/store"
)

// DataSource tags every record parsed from the EO Business Master File.
const DataSource = "IRS_EO_BMF"

const (
	maxNameLen  = 500
	maxStateLen = 2
	maxZipLen   = 10
)

// RawRow is one record of an EO BMF partition, with fields bound from the
// header row. Missing columns stay as empty strings.
type RawRow struct {
	EIN          string
	Name         string
	Street       string
	City         string
	State        string
	Zip          string
	Subsection   string
	NTEECode     string
	Foundation   string
	AssetCode    string
	IncomeCode   string
	RevenueCode  string
	Status       string
	Ruling       string
	TaxPeriod    string
	GroupExempt  string
	Deductible   string
	Activity     string
	Organization string
}

// rawRowFields maps BMF header names to RawRow field setters.
var rawRowFields = map[string]func(*RawRow, string){
	"EIN":          func(r *RawRow, v string) { r.EIN = v },
	"NAME":         func(r *RawRow, v string) { r.Name = v },
	"STREET":       func(r *RawRow, v string) { r.Street = v },
	"CITY":         func(r *RawRow, v string) { r.City = v },
	"STATE":        func(r *RawRow, v string) { r.State = v },
	"ZIP":          func(r *RawRow, v string) { r.Zip = v },
	"SUBSECTION":   func(r *RawRow, v string) { r.Subsection = v },
	"NTEE_CD":      func(r *RawRow, v string) { r.NTEECode = v },
	"FOUNDATION":   func(r *RawRow, v string) { r.Foundation = v },
	"ASSET_AMT":    func(r *RawRow, v string) { r.AssetCode = v },
	"INCOME_AMT":   func(r *RawRow, v string) { r.IncomeCode = v },
	"REVENUE_AMT":  func(r *RawRow, v string) { r.RevenueCode = v },
	"STATUS":       func(r *RawRow, v string) { r.Status = v },
	"RULING":       func(r *RawRow, v string) { r.Ruling = v },
	"TAX_PERIOD":   func(r *RawRow, v string) { r.TaxPeriod = v },
	"GEN":          func(r *RawRow, v string) { r.GroupExempt = v },
	"DEDUCTIBILITY": func(r *RawRow, v string) { r.Deductible = v },
	"ACTIVITY":     func(r *RawRow, v string) { r.Activity = v },
	"ORGANIZATION": func(r *RawRow, v string) { r.Organization = v },
}

// ParseRow converts one raw BMF row into a canonical organization record.
// Rows without an EIN are dropped: ok is false and the record is zero.
func ParseRow(raw RawRow) (store.Organization, bool) {
	ein := strings.TrimSpace(raw.EIN)
	if ein == "" {
		return store.Organization{}, false
	}

	org := store.Organization{
		EIN:     ein,
		Name:    truncate(strings.TrimSpace(raw.Name), maxNameLen),
		Street:  strings.TrimSpace(raw.Street),
		City:    strings.TrimSpace(raw.City),
		State:   truncate(strings.TrimSpace(raw.State), maxStateLen),
		Zip:     truncate(strings.TrimSpace(raw.Zip), maxZipLen),
		Country: "US",

		SubsectionCode:   strings.TrimSpace(raw.Subsection),
		NTEECode:         strings.TrimSpace(raw.NTEECode),
		FoundationCode:   strings.TrimSpace(raw.Foundation),
		OrganizationCode: strings.TrimSpace(raw.Organization),

		AssetAmount:   AmountForCode(raw.AssetCode),
		IncomeAmount:  AmountForCode(raw.IncomeCode),
		RevenueAmount: AmountForCode(raw.RevenueCode),

		TaxExemptStatus: strings.TrimSpace(raw.Status),
		RulingDate:      strings.TrimSpace(raw.Ruling),
		TaxPeriod:       strings.TrimSpace(raw.TaxPeriod),

		GroupExemption: strings.TrimSpace(raw.GroupExempt),
		Deductibility:  strings.TrimSpace(raw.Deductible),
		ActivityCodes:  strings.TrimSpace(raw.Activity),

		DataSource: DataSource,
	}

	if org.NTEECode != "" {
		org.NTEEDescription = CategoryName(org.NTEECode[:1])
	}

	return org, true
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
