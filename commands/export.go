package commands

import (
	"github.com/spf13/cobra"

	"skotani/hyakumap/config"
	"skotani/hyakumap/internal/export"
	"skotani/hyakumap/internal/store"
)

var (
	exportDb   *string
	exportOut  *string
	exportFull *bool
)

func init() {
	exportDb = exportCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	exportOut = exportCmd.Flags().String("out", "static_site", "Output directory for the static site data")
	exportFull = exportCmd.Flags().Bool("full", false, "Include hours, closed days and phone in the export")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the database as static JSON for file hosting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if *exportDb != "" {
			cfg.DatabasePath = *exportDb
		}

		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		return export.Run(st, export.Options{
			OutputDir: *exportOut,
			Full:      *exportFull,
		})
	},
}
