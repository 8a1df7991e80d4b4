package model

import "time"

// CompanyRecord is one row of the synthesis company list. Code is the
// natural key in the document store.
type CompanyRecord struct {
	Code      string
	Title     string
	Consensus string
	Potential string // label text as captured, not parsed
	URL       string
	ScrapedAt time.Time
}

// ShareholderRecord is one shareholder entry from a company detail page.
// Unique per (CompanyCode, Name).
type ShareholderRecord struct {
	CompanyCode string
	Name        string
	Percentage  string // captured text, not normalized
	ScrapedAt   time.Time
}

// FinancialMetricRecord is one metric row from a company's financials table,
// mapping year label to captured value text. Unique per (CompanyCode, Metric).
type FinancialMetricRecord struct {
	CompanyCode string
	Metric      string
	Values      map[string]string
	ScrapedAt   time.Time
}
