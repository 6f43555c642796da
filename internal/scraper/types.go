package scraper

// Category represents one awards category discovered on the index page
type Category struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Region   string `json:"region"`
	Path     string `json:"path"`
}

// Stub is the minimal restaurant record produced by the listing parser,
// pending detail enrichment
type Stub struct {
	Name      string
	DetailURL string
	Category  string
	Region    string
	Station   *string
	Closed    *string
}

// Record is a sparse restaurant record. A nil field means "not scraped this
// time" and must never clear a previously stored value on upsert.
type Record struct {
	URL         string
	Name        *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Phone       *string
	Rating      *float64
	ReviewCount *int64
	PriceRange  *string
	Hours       *string
	Closed      *string
	Station     *string
}

// MergeDetails merges extracted detail fields over the listing stub.
// Detail fields win; stub-level hints survive only where the extractor
// produced nothing.
func (s Stub) MergeDetails(details *Record) Record {
	rec := *details
	if rec.Name == nil && s.Name != "" {
		name := s.Name
		rec.Name = &name
	}
	if rec.Station == nil {
		rec.Station = s.Station
	}
	if rec.Closed == nil {
		rec.Closed = s.Closed
	}
	return rec
}
