package store

import (
	"database/sql"
	"math"

	"skotani/hyakumap/pkg/errors"
)

// Restaurant is a stored restaurant row with its concatenated category names
type Restaurant struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	NameReading *string  `json:"name_reading"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       *string  `json:"phone"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int64   `json:"review_count"`
	PriceRange  *string  `json:"price_range"`
	Hours       *string  `json:"hours"`
	Closed      *string  `json:"closed"`
	Station     *string  `json:"station"`
	URL         string   `json:"url"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Categories  *string  `json:"categories"`
	Regions     *string  `json:"regions"`
}

// SearchParams are the optional filters of a search, combined with AND
// semantics. Nil or empty members are not applied. All four bounding-box
// edges must be set for the box to apply.
type SearchParams struct {
	Query      string
	Category   string
	Region     string
	MinRating  *float64
	PriceRange string
	Limit      int
	South      *float64
	West       *float64
	North      *float64
	East       *float64
}

// Stats summarizes the database contents
type Stats struct {
	TotalRestaurants      int64    `json:"total_restaurants"`
	RestaurantsWithCoords int64    `json:"restaurants_with_coords"`
	TotalCategories       int64    `json:"total_categories"`
	AvgRating             *float64 `json:"avg_rating"`
}

const selectRestaurants = `
	SELECT r.id, r.name, r.name_reading, r.address, r.latitude, r.longitude,
	       r.phone, r.rating, r.review_count, r.price_range, r.hours,
	       r.closed, r.station, r.url, r.created_at, r.updated_at,
	       GROUP_CONCAT(c.name, ', ') AS categories,
	       GROUP_CONCAT(rc.region, ', ') AS regions
	FROM restaurants r
	LEFT JOIN restaurant_categories rc ON r.id = rc.restaurant_id
	LEFT JOIN categories c ON rc.category_id = c.id`

// Search returns restaurants matching every supplied filter, one row per
// restaurant, best rated first, review count breaking ties.
func (s *Store) Search(params SearchParams) ([]Restaurant, error) {
	query := selectRestaurants + " WHERE 1=1"
	var args []interface{}

	if params.Query != "" {
		query += " AND (r.name LIKE ? OR r.address LIKE ? OR r.station LIKE ?)"
		term := "%" + params.Query + "%"
		args = append(args, term, term, term)
	}
	if params.Category != "" {
		query += " AND c.name LIKE ?"
		args = append(args, "%"+params.Category+"%")
	}
	if params.Region != "" {
		query += " AND rc.region = ?"
		args = append(args, params.Region)
	}
	if params.MinRating != nil {
		query += " AND r.rating >= ?"
		args = append(args, *params.MinRating)
	}
	if params.PriceRange != "" {
		query += " AND r.price_range LIKE ?"
		args = append(args, "%"+params.PriceRange+"%")
	}
	if params.South != nil && params.West != nil && params.North != nil && params.East != nil {
		query += " AND r.latitude BETWEEN ? AND ? AND r.longitude BETWEEN ? AND ?"
		args = append(args, *params.South, *params.North, *params.West, *params.East)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " GROUP BY r.id ORDER BY r.rating DESC, r.review_count DESC LIMIT ?"
	args = append(args, limit)

	return s.queryRestaurants(query, args...)
}

// AllWithCoords returns every restaurant with both coordinates present,
// best rated first. Feeds full-dataset map views and static exports.
func (s *Store) AllWithCoords() ([]Restaurant, error) {
	query := selectRestaurants + `
	WHERE r.latitude IS NOT NULL AND r.longitude IS NOT NULL
	GROUP BY r.id
	ORDER BY r.rating DESC`

	return s.queryRestaurants(query)
}

func (s *Store) queryRestaurants(query string, args ...interface{}) ([]Restaurant, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.NewPersistence("", "query restaurants", err)
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		var r Restaurant
		err := rows.Scan(
			&r.ID, &r.Name, &r.NameReading, &r.Address, &r.Latitude,
			&r.Longitude, &r.Phone, &r.Rating, &r.ReviewCount, &r.PriceRange,
			&r.Hours, &r.Closed, &r.Station, &r.URL, &r.CreatedAt,
			&r.UpdatedAt, &r.Categories, &r.Regions,
		)
		if err != nil {
			return nil, errors.NewPersistence("", "scan restaurant row", err)
		}
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistence("", "iterate restaurant rows", err)
	}
	return restaurants, nil
}

// CategoryNames returns the distinct category names in alphabetical order
func (s *Store) CategoryNames() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT name FROM categories ORDER BY name")
	if err != nil {
		return nil, errors.NewPersistence("", "query categories", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewPersistence("", "scan category row", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats returns aggregate counts and the average rating, rounded to two
// decimal places
func (s *Store) Stats() (Stats, error) {
	var stats Stats

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM restaurants", &stats.TotalRestaurants},
		{"SELECT COUNT(*) FROM restaurants WHERE latitude IS NOT NULL", &stats.RestaurantsWithCoords},
		{"SELECT COUNT(*) FROM categories", &stats.TotalCategories},
	}
	for _, count := range counts {
		if err := s.db.QueryRow(count.query).Scan(count.dest); err != nil {
			return Stats{}, errors.NewPersistence("", "query stats", err)
		}
	}

	var avg sql.NullFloat64
	err := s.db.QueryRow("SELECT AVG(rating) FROM restaurants WHERE rating IS NOT NULL").Scan(&avg)
	if err != nil {
		return Stats{}, errors.NewPersistence("", "query average rating", err)
	}
	if avg.Valid {
		rounded := math.Round(avg.Float64*100) / 100
		stats.AvgRating = &rounded
	}

	return stats, nil
}
