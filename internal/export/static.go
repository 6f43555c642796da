package export

import (
	"encoding/json"
	"os"
	"path/filepath"

	"skotani/hyakumap/internal/store"
	"skotani/hyakumap/logger"
	"skotani/hyakumap/pkg/errors"
)

// Options controls what the static export contains
type Options struct {
	OutputDir string
	// Full adds hours, closed and phone to each restaurant entry
	Full bool
}

// SlimRestaurant is the compact map entry written by default
type SlimRestaurant struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Rating     *float64 `json:"rating"`
	Categories *string  `json:"categories"`
	Address    *string  `json:"address"`
	Station    *string  `json:"station"`
	PriceRange *string  `json:"price_range"`
	URL        string   `json:"url"`
}

// FullRestaurant adds the detail-only fields to the slim entry
type FullRestaurant struct {
	SlimRestaurant
	Hours  *string `json:"hours"`
	Closed *string `json:"closed"`
	Phone  *string `json:"phone"`
}

// Run writes restaurants.json, categories.json and stats.json into the
// output directory, creating it if needed. The result is a fully static
// site payload: any file host can serve it.
func Run(st *store.Store, opts Options) error {
	log := logger.ForStore().WithField("output", opts.OutputDir)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return errors.NewPersistence(opts.OutputDir, "create output directory", err)
	}

	restaurants, err := st.AllWithCoords()
	if err != nil {
		return err
	}

	var payload interface{}
	if opts.Full {
		payload = fullEntries(restaurants)
	} else {
		payload = slimEntries(restaurants)
	}
	if err := writeJSON(opts.OutputDir, "restaurants.json", payload); err != nil {
		return err
	}
	log.Info().Int("count", len(restaurants)).Msg("Exported restaurants")

	categories, err := st.CategoryNames()
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	if err := writeJSON(opts.OutputDir, "categories.json", categories); err != nil {
		return err
	}
	log.Info().Int("count", len(categories)).Msg("Exported categories")

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	if err := writeJSON(opts.OutputDir, "stats.json", stats); err != nil {
		return err
	}
	log.Info().Msg("Exported stats")

	return nil
}

func slimEntries(restaurants []store.Restaurant) []SlimRestaurant {
	entries := make([]SlimRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		entries = append(entries, SlimRestaurant{
			Name:       r.Name,
			Lat:        *r.Latitude,
			Lng:        *r.Longitude,
			Rating:     r.Rating,
			Categories: r.Categories,
			Address:    r.Address,
			Station:    r.Station,
			PriceRange: CleanPriceRange(r.PriceRange),
			URL:        r.URL,
		})
	}
	return entries
}

func fullEntries(restaurants []store.Restaurant) []FullRestaurant {
	entries := make([]FullRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		slim := slimEntries([]store.Restaurant{r})
		entries = append(entries, FullRestaurant{
			SlimRestaurant: slim[0],
			Hours:          r.Hours,
			Closed:         r.Closed,
			Phone:          r.Phone,
		})
	}
	return entries
}

// CleanPriceRange reduces a schema.org JSON blob that ended up stored as a
// price range to its priceRange value. Non-JSON values pass through unless
// they are implausibly long; other blobs are dropped.
func CleanPriceRange(value *string) *string {
	if value == nil {
		return nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(*value), &data); err == nil {
		if price, ok := data["priceRange"].(string); ok {
			return &price
		}
		return nil
	}

	if len(*value) >= 100 {
		return nil
	}
	return value
}

func writeJSON(dir, name string, payload interface{}) error {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return errors.NewPersistence(path, "create export file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return errors.NewPersistence(path, "write export file", err)
	}
	return nil
}
