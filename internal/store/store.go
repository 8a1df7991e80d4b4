package store

import "BourseWatch/internal/model"

// Totals reports per-collection document counts.
type Totals struct {
	Companies    int64
	Shareholders int64
	Financials   int64
}

// Store persists scraped documents, upserting by each record's natural key.
// Upserts report whether a new document was inserted (false means an
// existing one was overwritten in place).
type Store interface {
	UpsertCompany(c *model.CompanyRecord) (inserted bool, err error)
	UpsertShareholder(sh *model.ShareholderRecord) (inserted bool, err error)
	UpsertFinancial(f *model.FinancialMetricRecord) (inserted bool, err error)
	Totals() (*Totals, error)
	Close() error
}
