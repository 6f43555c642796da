package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"skotani/hyakumap/internal/scraper"
	"skotani/hyakumap/logger"
	"skotani/hyakumap/pkg/errors"
)

//go:embed schema.sql
var schema string

// Sortable timestamp format with sub-second precision so repeated upserts
// observably advance updated_at
const timeLayout = "2006-01-02 15:04:05.000"

// Store persists restaurants, categories and their associations in an
// embedded sqlite database. It is meant for one writer at a time.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewPersistence(path, "open database", err)
	}

	// Single connection: keeps the pragma effective and matches the
	// one-writer access model
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewPersistence(path, "enable foreign keys", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewPersistence(path, "apply schema", err)
	}

	return &Store{db: db, log: logger.ForStore()}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertCategory returns the id of the category with the given name,
// inserting it first if it does not exist yet. Idempotent.
func (s *Store) InsertCategory(name string, nameEn *string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, errors.NewPersistence(name, "look up category", err)
	}

	result, err := s.db.Exec("INSERT INTO categories (name, name_en) VALUES (?, ?)", name, nameEn)
	if err != nil {
		return 0, errors.NewPersistence(name, "insert category", err)
	}
	return result.LastInsertId()
}

// InsertRestaurant inserts a new restaurant or merges the record into an
// existing row keyed by URL. Only non-nil incoming fields overwrite stored
// values; a partial re-scrape never blanks previously known data.
// updated_at advances on every merge.
func (s *Store) InsertRestaurant(rec scraper.Record) (int64, error) {
	if rec.URL == "" {
		return 0, errors.NewPersistence("", "insert restaurant", fmt.Errorf("record has no url"))
	}

	var id int64
	err := s.db.QueryRow("SELECT id FROM restaurants WHERE url = ?", rec.URL).Scan(&id)
	if err == nil {
		if err := s.updateRestaurant(id, rec); err != nil {
			return 0, err
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, errors.NewPersistence(rec.URL, "look up restaurant", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	result, err := s.db.Exec(`
		INSERT INTO restaurants (
			name, address, latitude, longitude, phone, rating,
			review_count, price_range, hours, closed, station, url,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nameOrUnknown(rec.Name),
		rec.Address, rec.Latitude, rec.Longitude, rec.Phone, rec.Rating,
		rec.ReviewCount, rec.PriceRange, rec.Hours, rec.Closed, rec.Station,
		rec.URL, now, now,
	)
	if err != nil {
		return 0, errors.NewPersistence(rec.URL, "insert restaurant", err)
	}
	return result.LastInsertId()
}

// updateRestaurant applies the field-level merge to an existing row
func (s *Store) updateRestaurant(id int64, rec scraper.Record) error {
	var updates []string
	var values []interface{}

	appendSet := func(column string, value interface{}) {
		updates = append(updates, column+" = ?")
		values = append(values, value)
	}

	if rec.Name != nil {
		appendSet("name", *rec.Name)
	}
	if rec.Address != nil {
		appendSet("address", *rec.Address)
	}
	if rec.Latitude != nil {
		appendSet("latitude", *rec.Latitude)
	}
	if rec.Longitude != nil {
		appendSet("longitude", *rec.Longitude)
	}
	if rec.Phone != nil {
		appendSet("phone", *rec.Phone)
	}
	if rec.Rating != nil {
		appendSet("rating", *rec.Rating)
	}
	if rec.ReviewCount != nil {
		appendSet("review_count", *rec.ReviewCount)
	}
	if rec.PriceRange != nil {
		appendSet("price_range", *rec.PriceRange)
	}
	if rec.Hours != nil {
		appendSet("hours", *rec.Hours)
	}
	if rec.Closed != nil {
		appendSet("closed", *rec.Closed)
	}
	if rec.Station != nil {
		appendSet("station", *rec.Station)
	}

	appendSet("updated_at", time.Now().UTC().Format(timeLayout))
	values = append(values, id)

	query := "UPDATE restaurants SET " + strings.Join(updates, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, values...); err != nil {
		return errors.NewPersistence(rec.URL, "update restaurant", err)
	}
	return nil
}

// LinkRestaurantCategory associates a restaurant with a category for a
// region. Duplicate links are silent no-ops.
func (s *Store) LinkRestaurantCategory(restaurantID, categoryID int64, region string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO restaurant_categories (restaurant_id, category_id, region)
		VALUES (?, ?, ?)`,
		restaurantID, categoryID, region,
	)
	if err != nil {
		return errors.NewPersistence(region, "link restaurant to category", err)
	}
	return nil
}

// DeleteRestaurant removes a restaurant; its category links cascade away
func (s *Store) DeleteRestaurant(id int64) error {
	if _, err := s.db.Exec("DELETE FROM restaurants WHERE id = ?", id); err != nil {
		return errors.NewPersistence("", "delete restaurant", err)
	}
	return nil
}

func nameOrUnknown(name *string) string {
	if name != nil {
		return *name
	}
	return ""
}
