package extractor

import (
	"fmt"
	"strings"
	"time"

	"BourseWatch/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// Table identifiers on the synthesis and company detail pages.
const (
	companyTableID      = "tabQuotes"
	shareholderTableID  = "tblactions"
	financialTableClass = "table.tablenosort.tbl100_6.tabSociete"
)

// ParseCompanyList extracts the full company list from the synthesis page.
// Each row contributes a code (from the first link's target), a title and
// the two adjacent consensus/potential label columns. Rows without a link
// are skipped.
func ParseCompanyList(rawHTML, baseURL string, capturedAt time.Time) ([]model.CompanyRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table#" + companyTableID)
	if table.Length() == 0 {
		return nil, fmt.Errorf("company list table #%s not found", companyTableID)
	}

	var companies []model.CompanyRecord
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td").First().Find("a")
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		code := lastPathSegment(href)
		if code == "" {
			return
		}

		cells := row.Find("td")
		consensus := ""
		potential := ""
		if cells.Length() > 1 {
			consensus = squashSpace(cells.Eq(1).Text())
		}
		if cells.Length() > 2 {
			potential = squashSpace(cells.Eq(2).Text())
		}

		companies = append(companies, model.CompanyRecord{
			Code:      code,
			Title:     squashSpace(link.Text()),
			Consensus: consensus,
			Potential: potential,
			URL:       baseURL + "/marches/societe/" + code,
			ScrapedAt: capturedAt,
		})
	})
	return companies, nil
}

// ParseShareholders extracts the shareholders sub-table from a company
// detail page. Column layout: color marker (ignored), name, percentage.
// A missing table yields an empty result, not an error.
func ParseShareholders(rawHTML, companyCode string, capturedAt time.Time) ([]model.ShareholderRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	var shareholders []model.ShareholderRecord
	doc.Find("table#" + shareholderTableID).Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		name := squashSpace(cells.Eq(1).Text())
		percentage := squashSpace(cells.Eq(2).Text())
		if name == "" || percentage == "" {
			return
		}
		shareholders = append(shareholders, model.ShareholderRecord{
			CompanyCode: companyCode,
			Name:        name,
			Percentage:  percentage,
			ScrapedAt:   capturedAt,
		})
	})
	return shareholders, nil
}

// ParseFinancials extracts the multi-year financials sub-table. The header
// row gives year labels from the second cell onwards; each body row is one
// metric plus one value per year, with "-" or empty treated as absent.
// Rows that end up with no values are dropped.
func ParseFinancials(rawHTML, companyCode string, capturedAt time.Time) ([]model.FinancialMetricRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	table := doc.Find(financialTableClass)
	var years []string
	table.Find("thead th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return // leading empty header cell
		}
		years = append(years, squashSpace(cell.Text()))
	})
	if len(years) == 0 {
		return nil, nil
	}

	var metrics []model.FinancialMetricRecord
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		name := squashSpace(cells.Eq(0).Text())
		values := make(map[string]string)
		cells.Slice(1, cells.Length()).Each(func(i int, cell *goquery.Selection) {
			if i >= len(years) {
				return
			}
			v := squashSpace(cell.Text())
			if v != "" && v != "-" {
				values[years[i]] = v
			}
		})
		if len(values) == 0 {
			return
		}
		metrics = append(metrics, model.FinancialMetricRecord{
			CompanyCode: companyCode,
			Metric:      name,
			Values:      values,
			ScrapedAt:   capturedAt,
		})
	})
	return metrics, nil
}
