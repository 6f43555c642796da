package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"skotani/hyakumap/config"
	"skotani/hyakumap/internal/store"
)

var statsDb *string

func init() {
	statsDb = statsCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Shows database statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if *statsDb != "" {
			cfg.DatabasePath = *statsDb
		}

		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("Total restaurants: %d\n", stats.TotalRestaurants)
		fmt.Printf("Restaurants with coordinates: %d\n", stats.RestaurantsWithCoords)
		fmt.Printf("Total categories: %d\n", stats.TotalCategories)
		if stats.AvgRating != nil {
			fmt.Printf("Average rating: %.2f\n", *stats.AvgRating)
		} else {
			fmt.Println("Average rating: n/a")
		}
		return nil
	},
}
