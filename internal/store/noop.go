package store

import "BourseWatch/internal/model"

// NoopStore discards everything. Used when no database is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) UpsertCompany(*model.CompanyRecord) (bool, error) { return false, nil }

func (n *NoopStore) UpsertShareholder(*model.ShareholderRecord) (bool, error) { return false, nil }

func (n *NoopStore) UpsertFinancial(*model.FinancialMetricRecord) (bool, error) { return false, nil }

func (n *NoopStore) Totals() (*Totals, error) { return &Totals{}, nil }

func (n *NoopStore) Close() error { return nil }
