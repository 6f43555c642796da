package scraper

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"skotani/hyakumap/pkg/errors"
)

var (
	detailURLRegex = regexp.MustCompile(`tabelog\.com/[^/]+/A\d+`)
	stationRegex   = regexp.MustCompile(`駅`)
	closedDayRegex = regexp.MustCompile(`曜日`)
)

// ParseCategoryPage parses one category page into an ordered, URL-deduplicated
// list of restaurant stubs for the given category and region. Station and
// closed-day hints are best-effort: the first matching text inside the link's
// enclosing card may be unrelated text carrying the same glyph.
func ParseCategoryPage(body io.Reader, tabelogBaseURL, category, region string) ([]Stub, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(category+"_"+region, "category page HTML", err)
	}

	var stubs []Stub
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !detailURLRegex.MatchString(href) {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = tabelogBaseURL + href
		}
		if seen[href] {
			return
		}

		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		seen[href] = true

		stub := Stub{
			Name:      name,
			DetailURL: href,
			Category:  category,
			Region:    region,
		}

		// Opportunistic hints from the enclosing card
		if card := s.Closest("div, li, article"); card.Length() > 0 {
			if text, ok := findTextIn(card, stationRegex.MatchString); ok {
				stub.Station = &text
			}
			if text, ok := findTextIn(card, closedDayRegex.MatchString); ok {
				stub.Closed = &text
			}
		}

		stubs = append(stubs, stub)
	})

	return stubs, nil
}
