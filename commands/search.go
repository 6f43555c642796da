package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"skotani/hyakumap/config"
	"skotani/hyakumap/internal/store"
)

var (
	searchDb        *string
	searchCategory  *string
	searchRegion    *string
	searchMinRating *float64
	searchLimit     *int
)

func init() {
	searchDb = searchCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	searchCategory = searchCmd.Flags().String("category", "", "Filter by category")
	searchRegion = searchCmd.Flags().String("region", "", "Filter by region")
	searchMinRating = searchCmd.Flags().Float64("min-rating", 0, "Minimum rating")
	searchLimit = searchCmd.Flags().Int("limit", 20, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Searches restaurants from the command line.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if *searchDb != "" {
			cfg.DatabasePath = *searchDb
		}

		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		params := store.SearchParams{
			Category: *searchCategory,
			Region:   *searchRegion,
			Limit:    *searchLimit,
		}
		if len(args) > 0 {
			params.Query = args[0]
		}
		if *searchMinRating > 0 {
			params.MinRating = searchMinRating
		}

		results, err := st.Search(params)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No restaurants found")
			return nil
		}

		fmt.Printf("\nFound %d restaurants:\n\n", len(results))
		for i, r := range results {
			fmt.Printf("%d. %s\n", i+1, r.Name)
			if r.Rating != nil {
				fmt.Printf("   Rating: %.2f\n", *r.Rating)
			}
			if r.Categories != nil {
				fmt.Printf("   Categories: %s\n", *r.Categories)
			}
			if r.Address != nil {
				fmt.Printf("   Address: %s\n", *r.Address)
			}
			if r.Station != nil {
				fmt.Printf("   Station: %s\n", *r.Station)
			}
			fmt.Printf("   URL: %s\n\n", r.URL)
		}
		return nil
	},
}
