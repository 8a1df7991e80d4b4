package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"BourseWatch/internal/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DetailLinkPrefix marks hyperlinks that denote one tracked asset.
const DetailLinkPrefix = "conseil/"

// DefaultIconActions maps recommendation icon filenames to actions.
var DefaultIconActions = map[string]model.Action{
	"f_1b.png": model.ActionBuy,
	"f_5b.png": model.ActionSell,
	"f_3b.png": model.ActionKeep,
	"f_4b.png": model.ActionTakeProfit,
}

// percentPattern matches a signed number with either decimal separator,
// followed by a percent sign.
var percentPattern = regexp.MustCompile(`([+-]?\d+(?:[.,]\d+)?)\s*%`)

// followingImgLimit caps the document-order image search used as the last
// action-inference fallback.
const followingImgLimit = 6

// SyntheseExtractor turns raw synthesis page markup into asset signals.
// The icon map and percent pattern are injected so synthetic fixtures can
// exercise the fallback chains.
type SyntheseExtractor struct {
	linkPrefix string
	icons      map[string]model.Action
	percentRe  *regexp.Regexp
}

// NewSyntheseExtractor creates an extractor with the production constants.
func NewSyntheseExtractor() *SyntheseExtractor {
	return &SyntheseExtractor{
		linkPrefix: DetailLinkPrefix,
		icons:      DefaultIconActions,
		percentRe:  percentPattern,
	}
}

// Parse extracts asset signals in document order. No two results share the
// same (code, name) pair; the first occurrence wins. A candidate without a
// recognizable action icon is dropped entirely. Malformed candidates never
// abort the pass.
func (e *SyntheseExtractor) Parse(rawHTML string) ([]model.AssetSignal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	type key struct{ code, name string }
	seen := make(map[key]bool)
	var results []model.AssetSignal

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.HasPrefix(href, e.linkPrefix) {
			return
		}

		code := strings.ToUpper(strings.TrimSpace(lastPathSegment(href)))
		name := strings.TrimSpace(link.Text())
		k := key{code, name}
		if seen[k] {
			return
		}
		seen[k] = true

		// Context for action and potential inference: the enclosing table
		// row when present, otherwise the link's immediate container.
		row := link.Closest("tr")
		hasRow := row.Length() > 0
		ctx := row
		if !hasRow {
			ctx = link.Parent()
		}

		action, ok := e.inferAction(link, ctx)
		if !ok {
			return
		}

		results = append(results, model.AssetSignal{
			Code:      code,
			Name:      name,
			Action:    action,
			Potential: e.inferPotential(link, row, hasRow),
		})
	})

	return results, nil
}

// inferAction tries each image-source strategy in order and scans the first
// one that yields any images. The first image whose filename appears in the
// icon map decides the action; if the strategy's images all miss, the
// candidate is discarded without consulting later strategies.
func (e *SyntheseExtractor) inferAction(link, ctx *goquery.Selection) (model.Action, bool) {
	strategies := []func() []string{
		func() []string { return imgSources(ctx.Find("img")) },
		func() []string { return imgSources(link.NextAllFiltered("img")) },
		func() []string { return followingImgSources(link, followingImgLimit) },
	}
	for _, strat := range strategies {
		srcs := strat()
		if len(srcs) == 0 {
			continue
		}
		for _, src := range srcs {
			if action, ok := e.icons[lastPathSegment(src)]; ok {
				return action, true
			}
		}
		return "", false
	}
	return "", false
}

// inferPotential searches the candidate's text window for the first percent
// token. Missing tokens and parse failures both degrade to 0.0.
func (e *SyntheseExtractor) inferPotential(link, row *goquery.Selection, hasRow bool) float64 {
	var parts []string
	if hasRow {
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			parts = append(parts, squashSpace(cell.Text()))
		})
	} else {
		parts = append(parts, squashSpace(link.Parent().Text()))
		sib := link
		for i := 0; i < followingImgLimit; i++ {
			sib = sib.Next()
			if sib.Length() == 0 {
				break
			}
			parts = append(parts, squashSpace(sib.Text()))
		}
	}

	m := e.percentRe.FindStringSubmatch(strings.Join(parts, " "))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// imgSources collects non-empty src attributes from a selection of images.
func imgSources(imgs *goquery.Selection) []string {
	var srcs []string
	imgs.Each(func(_ int, img *goquery.Selection) {
		if src, _ := img.Attr("src"); src != "" {
			srcs = append(srcs, src)
		}
	})
	return srcs
}

// followingImgSources walks the parse tree in document order starting just
// after the link and collects up to limit image sources. goquery has no
// following-in-document-order traversal, so this works on the underlying
// html nodes directly.
func followingImgSources(link *goquery.Selection, limit int) []string {
	if len(link.Nodes) == 0 {
		return nil
	}
	var srcs []string
	for n := nextInDocument(link.Nodes[0]); n != nil && len(srcs) < limit; n = nextInDocument(n) {
		if n.Type != html.ElementNode || n.Data != "img" {
			continue
		}
		for _, attr := range n.Attr {
			if attr.Key == "src" && attr.Val != "" {
				srcs = append(srcs, attr.Val)
				break
			}
		}
	}
	return srcs
}

// nextInDocument returns the successor of n in document order: first child,
// else next sibling, else the nearest ancestor's next sibling.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func lastPathSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// squashSpace collapses runs of whitespace to single spaces and trims.
func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
