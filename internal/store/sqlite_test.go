package store

import (
	"path/filepath"
	"testing"
	"time"

	"BourseWatch/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertCompany_InsertThenUpdate(t *testing.T) {
	s := newTestStore(t)
	c := &model.CompanyRecord{
		Code: "ABC", Title: "Alpha Bank", Consensus: "Acheter",
		Potential: "+12,5%", URL: "https://x/marches/societe/ABC",
		ScrapedAt: time.Now().UTC(),
	}

	inserted, err := s.UpsertCompany(c)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !inserted {
		t.Error("first upsert should insert")
	}

	c.Consensus = "Conserver"
	inserted, err = s.UpsertCompany(c)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted {
		t.Error("second upsert should update in place")
	}

	totals, err := s.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Companies != 1 {
		t.Errorf("expected 1 company, got %d", totals.Companies)
	}
}

func TestUpsertShareholder_NaturalKey(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	records := []model.ShareholderRecord{
		{CompanyCode: "ABC", Name: "Holding", Percentage: "54,2%", ScrapedAt: now},
		{CompanyCode: "ABC", Name: "Flottant", Percentage: "30%", ScrapedAt: now},
		{CompanyCode: "XYZ", Name: "Holding", Percentage: "10%", ScrapedAt: now},
	}
	for i := range records {
		if _, err := s.UpsertShareholder(&records[i]); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	// Same (company, name) pair overwrites; same name under another company does not.
	inserted, err := s.UpsertShareholder(&model.ShareholderRecord{
		CompanyCode: "ABC", Name: "Holding", Percentage: "55%", ScrapedAt: now,
	})
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if inserted {
		t.Error("expected update for existing (company, name) key")
	}

	totals, err := s.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Shareholders != 3 {
		t.Errorf("expected 3 shareholders, got %d", totals.Shareholders)
	}
}

func TestUpsertFinancial_Idempotent(t *testing.T) {
	s := newTestStore(t)
	f := &model.FinancialMetricRecord{
		CompanyCode: "ABC", Metric: "Revenue",
		Values:    map[string]string{"2022": "100", "2023": "120"},
		ScrapedAt: time.Now().UTC(),
	}

	for run := 0; run < 2; run++ {
		inserted, err := s.UpsertFinancial(f)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if inserted != (run == 0) {
			t.Errorf("run %d: inserted=%v", run, inserted)
		}
	}

	totals, err := s.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Financials != 1 {
		t.Errorf("expected 1 financial record, got %d", totals.Financials)
	}
}
