package scraper

import (
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"skotani/hyakumap/config"
	"skotani/hyakumap/helpers"
	"skotani/hyakumap/logger"
	"skotani/hyakumap/pkg/errors"
)

// Scraper fetches and parses awards pages sequentially, sleeping before every
// outbound request. It owns its HTTP client for the duration of one run.
type Scraper struct {
	client         *http.Client
	awardsBaseURL  string
	tabelogBaseURL string
	userAgent      string
	delay          time.Duration
	log            *logger.Logger

	// replaced in tests
	fetchFunc func(url string) (io.Reader, error)
}

// New creates a scraper from the configuration
func New(cfg config.Config) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		awardsBaseURL:  cfg.AwardsBaseURL,
		tabelogBaseURL: cfg.TabelogBaseURL,
		userAgent:      cfg.UserAgent,
		delay:          cfg.FetchDelay,
		log:            logger.ForScraper(),
	}
	s.fetchFunc = s.fetch
	return s
}

// Close releases the HTTP client's resources at the end of a run
func (s *Scraper) Close() {
	s.client.CloseIdleConnections()
}

func (s *Scraper) fetch(url string) (io.Reader, error) {
	time.Sleep(s.delay)
	body, err := helpers.Fetch(s.client, url, s.userAgent)
	if err != nil {
		return nil, errors.NewNetwork(url, "fetch failed", err)
	}
	return body, nil
}

// Categories fetches the awards index page and returns every category on it
func (s *Scraper) Categories() ([]Category, error) {
	indexURL := s.awardsBaseURL + awardsIndexPath
	s.log.Info().Str("url", indexURL).Msg("Fetching categories")

	body, err := s.fetchFunc(indexURL)
	if err != nil {
		return nil, err
	}

	categories, err := ParseAwardsIndex(body, s.awardsBaseURL)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(categories)).Msg("Found unique categories")
	return categories, nil
}

// RestaurantsFromCategory fetches one category page and returns its stubs.
// Fetch failures degrade to an empty list so the batch continues.
func (s *Scraper) RestaurantsFromCategory(cat Category) []Stub {
	s.log.Info().Str("url", cat.URL).Msg("Fetching restaurants")

	body, err := s.fetchFunc(cat.URL)
	if err != nil {
		s.log.Error().Err(err).Str("url", cat.URL).Msg("Failed to fetch category page")
		return nil
	}

	stubs, err := ParseCategoryPage(body, s.tabelogBaseURL, cat.Category, cat.Region)
	if err != nil {
		s.log.Error().Err(err).Str("url", cat.URL).Msg("Failed to parse category page")
		return nil
	}

	s.log.Info().
		Int("count", len(stubs)).
		Str("category", cat.Category+"_"+cat.Region).
		Msg("Found restaurants")
	return stubs
}

// RestaurantDetails fetches one detail page and extracts every known field.
// Returns nil when the page could not be fetched or parsed; the caller skips
// the stub and keeps going.
func (s *Scraper) RestaurantDetails(detailURL string) *Record {
	s.log.Debug().Str("url", detailURL).Msg("Fetching details")

	body, err := s.fetchFunc(detailURL)
	if err != nil {
		s.log.Error().Err(err).Str("url", detailURL).Msg("Failed to fetch detail page")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		s.log.Error().Err(err).Str("url", detailURL).Msg("Failed to parse detail page")
		return nil
	}

	return ExtractDetails(doc, detailURL)
}
