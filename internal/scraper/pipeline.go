package scraper

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"BourseWatch/internal/extractor"
	"BourseWatch/internal/fetcher"
	"BourseWatch/internal/model"
	"BourseWatch/internal/store"
)

// Stats accumulates upsert outcomes across one pipeline run.
type Stats struct {
	CompaniesInserted    int
	CompaniesUpdated     int
	ShareholdersInserted int
	ShareholdersUpdated  int
	FinancialsInserted   int
	FinancialsUpdated    int
}

// Pipeline is the companion batch job: company list extraction, per-company
// detail fetch, shareholder/financial extraction, and document upserts.
// Companies are processed one at a time with a randomized pause between
// them to bound the request rate.
type Pipeline struct {
	Fetcher  fetcher.Fetcher
	Store    store.Store
	BaseURL  string
	MinDelay time.Duration
	MaxDelay time.Duration

	sleep func(time.Duration)
	now   func() time.Time
}

// NewPipeline creates a pipeline with the default 1-3s inter-company pause.
func NewPipeline(f fetcher.Fetcher, st store.Store, baseURL string) *Pipeline {
	return &Pipeline{
		Fetcher:  f,
		Store:    st,
		BaseURL:  baseURL,
		MinDelay: 1 * time.Second,
		MaxDelay: 3 * time.Second,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Run executes the full pipeline. A company that fails to fetch or parse is
// logged and skipped; only an empty company list aborts the run.
func (p *Pipeline) Run() (*Stats, error) {
	listURL := p.BaseURL + "/analyses/synthese_fiches"
	log.Printf("[INFO] fetching company list from %s", listURL)

	rawHTML, err := p.Fetcher.Fetch(listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch company list: %w", err)
	}
	companies, err := extractor.ParseCompanyList(rawHTML, p.BaseURL, p.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("parse company list: %w", err)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("no companies found")
	}
	log.Printf("[INFO] found %d companies", len(companies))

	stats := &Stats{}
	for i := range companies {
		inserted, err := p.Store.UpsertCompany(&companies[i])
		if err != nil {
			log.Printf("[WARN] save company %s: %v", companies[i].Code, err)
			continue
		}
		if inserted {
			stats.CompaniesInserted++
		} else {
			stats.CompaniesUpdated++
		}
	}
	log.Printf("[INFO] companies: %d inserted, %d updated", stats.CompaniesInserted, stats.CompaniesUpdated)

	total := len(companies)
	for i := range companies {
		c := &companies[i]
		log.Printf("[INFO] [%d/%d] processing %s - %s", i+1, total, c.Code, c.Title)
		if err := p.processCompany(c, stats); err != nil {
			log.Printf("[WARN] %s: %v, skipping", c.Code, err)
		}
		if i < total-1 {
			p.pause()
		}
	}

	p.logSummary(stats)
	return stats, nil
}

// processCompany fetches one detail page and upserts its shareholder and
// financial sub-tables. Individual record failures are logged, not fatal.
func (p *Pipeline) processCompany(c *model.CompanyRecord, stats *Stats) error {
	rawHTML, err := p.Fetcher.Fetch(c.URL)
	if err != nil {
		return fmt.Errorf("fetch detail page: %w", err)
	}
	capturedAt := p.now().UTC()

	shareholders, err := extractor.ParseShareholders(rawHTML, c.Code, capturedAt)
	if err != nil {
		log.Printf("[WARN] parse shareholders for %s: %v", c.Code, err)
	}
	for i := range shareholders {
		inserted, err := p.Store.UpsertShareholder(&shareholders[i])
		if err != nil {
			log.Printf("[WARN] save shareholder %s/%s: %v", c.Code, shareholders[i].Name, err)
			continue
		}
		if inserted {
			stats.ShareholdersInserted++
		} else {
			stats.ShareholdersUpdated++
		}
	}
	log.Printf("[INFO]   shareholders: %d found", len(shareholders))

	financials, err := extractor.ParseFinancials(rawHTML, c.Code, capturedAt)
	if err != nil {
		log.Printf("[WARN] parse financials for %s: %v", c.Code, err)
	}
	for i := range financials {
		inserted, err := p.Store.UpsertFinancial(&financials[i])
		if err != nil {
			log.Printf("[WARN] save financial %s/%s: %v", c.Code, financials[i].Metric, err)
			continue
		}
		if inserted {
			stats.FinancialsInserted++
		} else {
			stats.FinancialsUpdated++
		}
	}
	log.Printf("[INFO]   financial metrics: %d found", len(financials))

	return nil
}

func (p *Pipeline) pause() {
	d := p.MinDelay
	if p.MaxDelay > p.MinDelay {
		d += time.Duration(rand.Int63n(int64(p.MaxDelay - p.MinDelay)))
	}
	if d <= 0 {
		return
	}
	log.Printf("[INFO] sleeping %.1fs before next company", d.Seconds())
	p.sleep(d)
}

func (p *Pipeline) logSummary(stats *Stats) {
	log.Printf("[INFO] run summary: companies %d/%d, shareholders %d/%d, financials %d/%d (inserted/updated)",
		stats.CompaniesInserted, stats.CompaniesUpdated,
		stats.ShareholdersInserted, stats.ShareholdersUpdated,
		stats.FinancialsInserted, stats.FinancialsUpdated)

	totals, err := p.Store.Totals()
	if err != nil {
		log.Printf("[WARN] read store totals: %v", err)
		return
	}
	log.Printf("[INFO] store totals: %d companies, %d shareholders, %d financial records",
		totals.Companies, totals.Shareholders, totals.Financials)
}
