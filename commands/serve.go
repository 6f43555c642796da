package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"skotani/hyakumap/config"
	"skotani/hyakumap/internal/server"
	"skotani/hyakumap/internal/store"
	"skotani/hyakumap/logger"
)

var (
	serveDb   *string
	serveHost *string
	servePort *int
)

func init() {
	serveDb = serveCmd.Flags().String("db", "", "Database file path (defaults to DATABASE_PATH)")
	serveHost = serveCmd.Flags().String("host", "", "Host to bind to (defaults to SERVER_HOST)")
	servePort = serveCmd.Flags().Int("port", 0, "Port to bind to (defaults to SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the restaurant database over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if *serveDb != "" {
			cfg.DatabasePath = *serveDb
		}
		if *serveHost != "" {
			cfg.ServerHost = *serveHost
		}
		if *servePort > 0 {
			cfg.ServerPort = *servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
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

		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		logger.ForServer().Info().
			Str("addr", addr).
			Int64("restaurants", stats.TotalRestaurants).
			Msg("Starting web server")

		return http.ListenAndServe(addr, server.New(st).Router())
	},
}
