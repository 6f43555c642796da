package commands

import (
	"time"

	"github.com/spf13/cobra"

	"skotani/hyakumap/config"
	"skotani/hyakumap/internal/scraper"
	"skotani/hyakumap/internal/store"
	"skotani/hyakumap/logger"
)

var (
	scrapeDb        *string
	scrapeDelayMs   *int
	scrapeTokyoOnly *bool
	scrapeLimit     *int
)

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	scrapeDelayMs = scrapeCmd.Flags().Int("delay", 0, "Delay between requests in milliseconds (defaults to FETCH_DELAY_MS)")
	scrapeTokyoOnly = scrapeCmd.Flags().Bool("tokyo-only", false, "Only scrape Tokyo categories")
	scrapeLimit = scrapeCmd.Flags().Int("limit", 0, "Maximum number of restaurants to scrape (0 = no limit)")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes the awards site and populates the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if *scrapeDb != "" {
			cfg.DatabasePath = *scrapeDb
		}
		if *scrapeDelayMs > 0 {
			cfg.FetchDelay = time.Duration(*scrapeDelayMs) * time.Millisecond
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		s := scraper.New(cfg)
		defer s.Close()

		return runScrape(s, st, *scrapeTokyoOnly, *scrapeLimit)
	},
}

// runScrape walks the full pipeline: categories, listing pages, detail pages,
// upserts. Every failure degrades to a skipped record; the batch keeps going.
func runScrape(s *scraper.Scraper, st *store.Store, tokyoOnly bool, limit int) error {
	log := logger.ForScraper()

	categories, err := s.Categories()
	if err != nil {
		return err
	}

	if tokyoOnly {
		var filtered []scraper.Category
		for _, cat := range categories {
			if cat.Region == "tokyo" {
				filtered = append(filtered, cat)
			}
		}
		log.Info().
			Int("total", len(categories)).
			Int("tokyo", len(filtered)).
			Msg("Filtering to Tokyo categories")
		categories = filtered
	}

	saved := 0
	failed := 0

	for i, cat := range categories {
		log.Info().
			Str("category", cat.Category+"_"+cat.Region).
			Msgf("[%d/%d] Processing category", i+1, len(categories))

		nameEn := cat.Category
		categoryID, err := st.InsertCategory(cat.Category, &nameEn)
		if err != nil {
			log.Error().Err(err).Str("category", cat.Category).Msg("Failed to save category")
			continue
		}

		stubs := s.RestaurantsFromCategory(cat)

		for j, stub := range stubs {
			if limit > 0 && saved >= limit {
				log.Info().Int("limit", limit).Msg("Reached restaurant limit")
				break
			}

			log.Info().Msgf("  [%d/%d] %s", j+1, len(stubs), stub.Name)

			details := s.RestaurantDetails(stub.DetailURL)
			if details == nil {
				failed++
				continue
			}

			restaurantID, err := st.InsertRestaurant(stub.MergeDetails(details))
			if err != nil {
				log.Error().Err(err).Str("url", stub.DetailURL).Msg("Failed to save restaurant")
				failed++
				continue
			}

			if err := st.LinkRestaurantCategory(restaurantID, categoryID, cat.Region); err != nil {
				log.Error().Err(err).Str("url", stub.DetailURL).Msg("Failed to link category")
			}
			saved++
		}

		if limit > 0 && saved >= limit {
			break
		}
	}

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	summary := log.WithFields(logger.Fields{
		"saved":             saved,
		"failed":            failed,
		"total_restaurants": stats.TotalRestaurants,
		"with_coords":       stats.RestaurantsWithCoords,
		"total_categories":  stats.TotalCategories,
	})
	if stats.AvgRating != nil {
		summary = summary.WithField("avg_rating", *stats.AvgRating)
	}
	summary.Info().Msg("Scraping complete")

	return nil
}
