package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skotani/hyakumap/internal/scraper"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int64) *int64       { return &i }

func TestInsertCategoryIdempotent(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.InsertCategory("ramen", strPtr("ramen"))
	require.NoError(t, err)
	id2, err := s.InsertCategory("ramen", nil)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	id3, err := s.InsertCategory("sushi", nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestInsertRestaurantRequiresURL(t *testing.T) {
	s := openTestStore(t)

	_, err := s.InsertRestaurant(scraper.Record{Name: strPtr("no url")})
	assert.Error(t, err)
}

func TestInsertRestaurantIdempotent(t *testing.T) {
	s := openTestStore(t)

	rec := scraper.Record{
		URL:    "https://x/1",
		Name:   strPtr("麺屋 一番"),
		Rating: floatPtr(4.2),
	}

	id1, err := s.InsertRestaurant(rec)
	require.NoError(t, err)

	first, err := s.Search(SearchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(first))
	firstUpdatedAt := first[0].UpdatedAt

	time.Sleep(5 * time.Millisecond)

	id2, err := s.InsertRestaurant(rec)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	second, err := s.Search(SearchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(second))
	assert.Greater(t, second[0].UpdatedAt, firstUpdatedAt)
}

func TestInsertRestaurantFieldMerge(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.InsertRestaurant(scraper.Record{
		URL:    "https://x/1",
		Name:   strPtr("麺屋 一番"),
		Rating: floatPtr(4.2),
	})
	require.NoError(t, err)

	// Partial re-scrape: rating absent, address newly known
	id2, err := s.InsertRestaurant(scraper.Record{
		URL:     "https://x/1",
		Address: strPtr("Shibuya"),
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	rows, err := s.Search(SearchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(rows))

	r := rows[0]
	require.NotNil(t, r.Rating)
	assert.Equal(t, 4.2, *r.Rating, "absent field must not clear the stored value")
	require.NotNil(t, r.Address)
	assert.Equal(t, "Shibuya", *r.Address)

	// A present field overwrites
	_, err = s.InsertRestaurant(scraper.Record{
		URL:    "https://x/1",
		Rating: floatPtr(4.5),
	})
	require.NoError(t, err)

	rows, err = s.Search(SearchParams{})
	require.NoError(t, err)
	require.NotNil(t, rows[0].Rating)
	assert.Equal(t, 4.5, *rows[0].Rating)
}

func TestCoordinatePairing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.InsertRestaurant(scraper.Record{
		URL:       "https://x/1",
		Name:      strPtr("geo"),
		Latitude:  floatPtr(35.6),
		Longitude: floatPtr(139.7),
	})
	require.NoError(t, err)
	_, err = s.InsertRestaurant(scraper.Record{
		URL:  "https://x/2",
		Name: strPtr("no geo"),
	})
	require.NoError(t, err)

	rows, err := s.Search(SearchParams{})
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, r.Latitude == nil, r.Longitude == nil,
			"latitude must be null iff longitude is null")
	}
}

func TestLinkRestaurantCategoryIdempotent(t *testing.T) {
	s := openTestStore(t)

	restaurantID, err := s.InsertRestaurant(scraper.Record{
		URL:  "https://x/1",
		Name: strPtr("麺屋 一番"),
	})
	require.NoError(t, err)
	categoryID, err := s.InsertCategory("ramen", nil)
	require.NoError(t, err)

	require.NoError(t, s.LinkRestaurantCategory(restaurantID, categoryID, "tokyo"))
	require.NoError(t, s.LinkRestaurantCategory(restaurantID, categoryID, "tokyo"))

	rows, err := s.Search(SearchParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(rows))
	require.NotNil(t, rows[0].Categories)
	assert.Equal(t, "ramen", *rows[0].Categories, "duplicate link must not duplicate the association")
}

func TestDeleteRestaurantCascades(t *testing.T) {
	s := openTestStore(t)

	restaurantID, err := s.InsertRestaurant(scraper.Record{
		URL:  "https://x/1",
		Name: strPtr("麺屋 一番"),
	})
	require.NoError(t, err)
	categoryID, err := s.InsertCategory("ramen", nil)
	require.NoError(t, err)
	require.NoError(t, s.LinkRestaurantCategory(restaurantID, categoryID, "tokyo"))

	require.NoError(t, s.DeleteRestaurant(restaurantID))

	var links int64
	err = s.db.QueryRow("SELECT COUNT(*) FROM restaurant_categories").Scan(&links)
	require.NoError(t, err)
	assert.Equal(t, int64(0), links)
}
