package scraper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ratingRegex      = regexp.MustCompile(`^\d+\.\d+$`)
	phoneRegex       = regexp.MustCompile(`^\d{2,4}-\d{4}-\d{4}$`)
	hoursRegex       = regexp.MustCompile(`\d{1,2}:\d{2}`)
	reviewCountRegex = regexp.MustCompile(`(\d+)件`)
	regionNameRegex  = regexp.MustCompile(`東京都`)
	latitudeRegex    = regexp.MustCompile(`latitude["']?\s*:\s*([\d.]+)`)
	longitudeRegex   = regexp.MustCompile(`longitude["']?\s*:\s*([\d.]+)`)
)

// textStrategy extracts one string field from a document; "" means no value
type textStrategy func(*goquery.Document) string

// coordsStrategy extracts a latitude/longitude pair; both or neither
type coordsStrategy func(*goquery.Document) (float64, float64, bool)

// applyTextStrategies runs strategies in order and keeps the first result.
// A later strategy only runs when the earlier ones produced nothing.
func applyTextStrategies(doc *goquery.Document, strategies []textStrategy) string {
	for _, strategy := range strategies {
		if result := strategy(doc); result != "" {
			return result
		}
	}
	return ""
}

// ExtractDetails extracts every known field from a restaurant detail page.
// Each field has its own fallback chain; failure at every tier leaves the
// field unset and never aborts the record.
func ExtractDetails(doc *goquery.Document, detailURL string) *Record {
	details := &Record{URL: detailURL}

	if name := applyTextStrategies(doc, []textStrategy{
		nameFromDisplayHeading,
		nameFromAnyHeading,
	}); name != "" {
		details.Name = &name
	}

	if text, ok := findText(doc, ratingRegex.MatchString); ok {
		if rating, err := strconv.ParseFloat(text, 64); err == nil {
			details.Rating = &rating
		}
	}

	if address := applyTextStrategies(doc, []textStrategy{
		addressFromRegionBlob,
		addressFromStructuredData,
	}); address != "" {
		details.Address = &address
	}

	for _, strategy := range []coordsStrategy{coordsFromMetaTags, coordsFromScripts} {
		if lat, lng, ok := strategy(doc); ok {
			details.Latitude = &lat
			details.Longitude = &lng
			break
		}
	}

	if text, ok := findText(doc, phoneRegex.MatchString); ok {
		details.Phone = &text
	}

	if priceRange := priceRangeFromStructuredData(doc); priceRange != "" {
		details.PriceRange = &priceRange
	}

	if text, ok := findText(doc, hoursRegex.MatchString); ok {
		// A raw JSON blob carrying a time-of-day pattern is noise, not hours
		if !strings.HasPrefix(text, "{") {
			details.Hours = &text
		}
	}

	if text, ok := findText(doc, reviewCountRegex.MatchString); ok {
		if m := reviewCountRegex.FindStringSubmatch(text); m != nil {
			if count, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				details.ReviewCount = &count
			}
		}
	}

	return details
}

// nameFromDisplayHeading matches the known display-name heading classes
func nameFromDisplayHeading(doc *goquery.Document) string {
	var name string
	doc.Find("h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !strings.Contains(class, "display-name") && !strings.Contains(class, "rdheader-name") {
			return true
		}
		name = strings.TrimSpace(s.Text())
		return name == ""
	})
	return name
}

// nameFromAnyHeading falls back to the first non-empty top-level heading
func nameFromAnyHeading(doc *goquery.Document) string {
	var name string
	doc.Find("h1, h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		name = strings.TrimSpace(s.Text())
		return name == ""
	})
	return name
}

// addressFromRegionBlob finds the first text node mentioning the region name
// and, when it is an embedded JSON blob, pulls the address out of it.
// Plain visible text mentioning the region is not an address by itself.
func addressFromRegionBlob(doc *goquery.Document) string {
	text, ok := findText(doc, regionNameRegex.MatchString)
	if !ok || !strings.HasPrefix(text, "{") {
		return ""
	}

	var schema map[string]interface{}
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return ""
	}
	return joinAddress(schema["address"])
}

// addressFromStructuredData scans the ld+json script blocks for an address
func addressFromStructuredData(doc *goquery.Document) string {
	var address string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		address = addressFromValue(data)
		return address == ""
	})
	return address
}

// addressFromValue looks for an address object at the top level of the parsed
// payload, or in order inside a top-level array
func addressFromValue(data interface{}) string {
	switch v := data.(type) {
	case map[string]interface{}:
		return joinAddress(v["address"])
	case []interface{}:
		for _, item := range v {
			if address := addressFromValue(item); address != "" {
				return address
			}
		}
	}
	return ""
}

// joinAddress concatenates addressRegion, addressLocality and streetAddress
// in that order with no separator, the way Japanese addresses are written
func joinAddress(value interface{}) string {
	addr, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	var parts []string
	for _, key := range []string{"addressRegion", "addressLocality", "streetAddress"} {
		if part, ok := addr[key].(string); ok {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "")
}

// coordsFromMetaTags reads the place:location meta pair; both must parse or
// neither is kept
func coordsFromMetaTags(doc *goquery.Document) (float64, float64, bool) {
	latContent, latOk := doc.Find(`meta[property="place:location:latitude"]`).First().Attr("content")
	lngContent, lngOk := doc.Find(`meta[property="place:location:longitude"]`).First().Attr("content")
	if !latOk || !lngOk {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(latContent, 64)
	lng, lngErr := strconv.ParseFloat(lngContent, 64)
	if latErr != nil || lngErr != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// coordsFromScripts scans inline scripts for latitude/longitude key-value
// pairs and keeps the first script where both parse
func coordsFromScripts(doc *goquery.Document) (float64, float64, bool) {
	var lat, lng float64
	var found bool
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := s.Text()
		latMatch := latitudeRegex.FindStringSubmatch(text)
		lngMatch := longitudeRegex.FindStringSubmatch(text)
		if latMatch == nil || lngMatch == nil {
			return true
		}

		latVal, latErr := strconv.ParseFloat(latMatch[1], 64)
		lngVal, lngErr := strconv.ParseFloat(lngMatch[1], 64)
		if latErr != nil || lngErr != nil {
			return true
		}

		lat, lng, found = latVal, lngVal, true
		return false
	})
	return lat, lng, found
}

// priceRangeFromStructuredData scans the ld+json script blocks for a
// top-level priceRange key
func priceRangeFromStructuredData(doc *goquery.Document) string {
	var priceRange string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if value, ok := data["priceRange"].(string); ok && value != "" {
			priceRange = value
			return false
		}
		return true
	})
	return priceRange
}
