package scraper

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skotani/hyakumap/config"
)

func newTestScraper() *Scraper {
	cfg := config.LoadConfig()
	cfg.FetchDelay = 0
	cfg.RequestTimeout = time.Second
	return New(cfg)
}

func TestScraperCategories(t *testing.T) {
	s := newTestScraper()
	s.fetchFunc = func(url string) (io.Reader, error) {
		assert.Contains(t, url, "/hyakumeiten/")
		return strings.NewReader(`<html><body>
			<a href="/hyakumeiten/ramen_tokyo">ラーメン TOKYO</a>
		</body></html>`), nil
	}
	defer s.Close()

	categories, err := s.Categories()
	require.NoError(t, err)
	require.Equal(t, 1, len(categories))
	assert.Equal(t, "ramen", categories[0].Category)
	assert.Equal(t, "tokyo", categories[0].Region)
}

func TestScraperCategoriesFetchError(t *testing.T) {
	s := newTestScraper()
	s.fetchFunc = func(url string) (io.Reader, error) {
		return nil, fmt.Errorf("connection refused")
	}
	defer s.Close()

	_, err := s.Categories()
	assert.Error(t, err)
}

func TestScraperRestaurantsFromCategorySkipsOnFetchError(t *testing.T) {
	s := newTestScraper()
	s.fetchFunc = func(url string) (io.Reader, error) {
		return nil, fmt.Errorf("status 503")
	}
	defer s.Close()

	stubs := s.RestaurantsFromCategory(Category{
		URL:      "https://award.example.com/hyakumeiten/ramen_tokyo",
		Category: "ramen",
		Region:   "tokyo",
	})
	assert.Empty(t, stubs)
}

func TestScraperRestaurantDetails(t *testing.T) {
	s := newTestScraper()
	s.fetchFunc = func(url string) (io.Reader, error) {
		return strings.NewReader(`<html><head>
			<meta property="place:location:latitude" content="35.6" />
			<meta property="place:location:longitude" content="139.7" />
		</head><body>
			<h2 class="display-name">麺屋 一番</h2>
			<span>3.85</span>
		</body></html>`), nil
	}
	defer s.Close()

	details := s.RestaurantDetails(detailURL)
	require.NotNil(t, details)
	assert.Equal(t, detailURL, details.URL)
	require.NotNil(t, details.Name)
	assert.Equal(t, "麺屋 一番", *details.Name)
	require.NotNil(t, details.Rating)
	assert.Equal(t, 3.85, *details.Rating)
	require.NotNil(t, details.Latitude)
	assert.Equal(t, 35.6, *details.Latitude)
}

func TestScraperRestaurantDetailsDegradesToNil(t *testing.T) {
	s := newTestScraper()
	s.fetchFunc = func(url string) (io.Reader, error) {
		return nil, fmt.Errorf("timeout")
	}
	defer s.Close()

	assert.Nil(t, s.RestaurantDetails(detailURL))
}

func TestMergeDetails(t *testing.T) {
	station := "五反田駅"
	stub := Stub{
		Name:      "listing name",
		DetailURL: detailURL,
		Category:  "ramen",
		Region:    "tokyo",
		Station:   &station,
	}

	detailName := "detail name"
	rating := 4.2
	details := &Record{URL: detailURL, Name: &detailName, Rating: &rating}

	merged := stub.MergeDetails(details)
	assert.Equal(t, "detail name", *merged.Name)
	assert.Equal(t, 4.2, *merged.Rating)
	require.NotNil(t, merged.Station)
	assert.Equal(t, "五反田駅", *merged.Station)
	assert.Nil(t, merged.Closed)
}

func TestMergeDetailsKeepsStubNameWhenExtractorFoundNone(t *testing.T) {
	stub := Stub{Name: "listing name", DetailURL: detailURL}
	merged := stub.MergeDetails(&Record{URL: detailURL})
	require.NotNil(t, merged.Name)
	assert.Equal(t, "listing name", *merged.Name)
}
