package scraper

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"skotani/hyakumap/pkg/errors"
)

const awardsIndexPath = "/hyakumeiten/"

var categoryPathRegex = regexp.MustCompile(`/hyakumeiten/\w+`)

// ParseAwardsIndex parses the awards index page into an ordered,
// URL-deduplicated list of categories. The slug after /hyakumeiten/ splits on
// the first underscore into category and region; slugs without an underscore
// get region "all".
func ParseAwardsIndex(body io.Reader, baseURL string) ([]Category, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(baseURL, "awards index HTML", err)
	}

	var categories []Category
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !categoryPathRegex.MatchString(href) || href == awardsIndexPath {
			return
		}

		fullURL := href
		if !strings.HasPrefix(href, "http") {
			fullURL = baseURL + href
		}
		if seen[fullURL] {
			return
		}
		seen[fullURL] = true

		path := href[strings.Index(href, awardsIndexPath)+len(awardsIndexPath):]
		parts := strings.SplitN(path, "_", 2)
		region := "all"
		if len(parts) > 1 {
			region = parts[1]
		}

		categories = append(categories, Category{
			Name:     strings.TrimSpace(s.Text()),
			URL:      fullURL,
			Category: parts[0],
			Region:   region,
			Path:     path,
		})
	})

	return categories, nil
}
