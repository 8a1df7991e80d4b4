package extractor

import (
	"testing"
	"time"
)

const companyListFixture = `<html><body>
<table id="tabQuotes">
<thead><tr><th>Valeur</th><th>Consensus</th><th>Potentiel</th></tr></thead>
<tbody>
<tr><td><a href="/analyses/conseil/ABC">Alpha Bank</a></td><td>Acheter</td><td>+12,5%</td></tr>
<tr><td><a href="/analyses/conseil/xyz">Xylo Industries</a></td><td>Vendre</td><td>-3,2%</td></tr>
<tr><td>no link here</td><td>x</td><td>y</td></tr>
<tr><td><a href="/analyses/conseil/KPR">Keeper SA</a></td></tr>
</tbody>
</table>
</body></html>`

func TestParseCompanyList(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	companies, err := ParseCompanyList(companyListFixture, "https://www.ilboursa.com", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(companies))
	}

	first := companies[0]
	if first.Code != "ABC" || first.Title != "Alpha Bank" {
		t.Errorf("unexpected first company: %+v", first)
	}
	if first.Consensus != "Acheter" || first.Potential != "+12,5%" {
		t.Errorf("unexpected labels: %+v", first)
	}
	if first.URL != "https://www.ilboursa.com/marches/societe/ABC" {
		t.Errorf("unexpected URL: %s", first.URL)
	}
	if !first.ScrapedAt.Equal(now) {
		t.Errorf("unexpected capture time: %v", first.ScrapedAt)
	}

	// Codes are kept as captured, not normalized.
	if companies[1].Code != "xyz" {
		t.Errorf("expected raw code xyz, got %s", companies[1].Code)
	}

	// Row with a link but missing label columns still yields a record.
	if companies[2].Code != "KPR" || companies[2].Consensus != "" || companies[2].Potential != "" {
		t.Errorf("unexpected short-row company: %+v", companies[2])
	}
}

func TestParseCompanyList_MissingTable(t *testing.T) {
	if _, err := ParseCompanyList("<html><body><p>maintenance</p></body></html>", "https://x", time.Now()); err == nil {
		t.Fatal("expected error when the company table is absent")
	}
}

const detailFixture = `<html><body>
<table id="tblactions">
<tbody>
<tr><td><span class="color"></span></td><td>Holding Majoritaire</td><td>54,2%</td></tr>
<tr><td></td><td>Flottant</td><td>30%</td></tr>
<tr><td></td><td></td><td>5%</td></tr>
<tr><td>only two cells</td><td>x</td></tr>
</tbody>
</table>
<table class="tablenosort tbl100_6 tabSociete">
<thead><tr><th></th><th>2021</th><th>2022</th><th>2023</th></tr></thead>
<tbody>
<tr><td>Revenue</td><td>100</td><td>-</td><td>120</td></tr>
<tr><td>Net income</td><td>-</td><td></td><td>-</td></tr>
<tr><td>EPS</td><td>1,2</td><td>1,4</td><td>1,6</td></tr>
</tbody>
</table>
</body></html>`

func TestParseShareholders(t *testing.T) {
	now := time.Now()
	shareholders, err := ParseShareholders(detailFixture, "ABC", now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(shareholders) != 2 {
		t.Fatalf("expected 2 shareholders, got %d: %v", len(shareholders), shareholders)
	}
	if shareholders[0].Name != "Holding Majoritaire" || shareholders[0].Percentage != "54,2%" {
		t.Errorf("unexpected shareholder: %+v", shareholders[0])
	}
	if shareholders[0].CompanyCode != "ABC" {
		t.Errorf("unexpected company code: %s", shareholders[0].CompanyCode)
	}
}

func TestParseShareholders_MissingTable(t *testing.T) {
	shareholders, err := ParseShareholders("<html><body></body></html>", "ABC", time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(shareholders) != 0 {
		t.Errorf("expected no shareholders, got %v", shareholders)
	}
}

func TestParseFinancials(t *testing.T) {
	metrics, err := ParseFinancials(detailFixture, "ABC", time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// "Net income" has only absent values and is dropped.
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d: %v", len(metrics), metrics)
	}

	revenue := metrics[0]
	if revenue.Metric != "Revenue" {
		t.Fatalf("unexpected metric order: %v", metrics)
	}
	want := map[string]string{"2021": "100", "2023": "120"}
	if len(revenue.Values) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), revenue.Values)
	}
	for year, v := range want {
		if revenue.Values[year] != v {
			t.Errorf("year %s: expected %s, got %s", year, v, revenue.Values[year])
		}
	}

	eps := metrics[1]
	if eps.Values["2022"] != "1,4" {
		t.Errorf("expected captured text value, got %v", eps.Values)
	}
}

func TestParseFinancials_MissingTable(t *testing.T) {
	metrics, err := ParseFinancials("<html><body></body></html>", "ABC", time.Now())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if metrics != nil {
		t.Errorf("expected nil metrics, got %v", metrics)
	}
}
