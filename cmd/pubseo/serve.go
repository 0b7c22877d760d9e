package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/pubseo"
	"github.com/eringen/pubseo/views"
)

var staticDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Long:  "Serve the public site and the admin editor. ADMIN_PASSWORD and SESSION_SECRET must be set.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.AdminPassword = pubseo.MustEnv("ADMIN_PASSWORD")
		cfg.SessionSecret = pubseo.MustEnv("SESSION_SECRET")

		app := pubseo.New(cfg, views.Funcs(views.SiteConfig{
			Name:        cfg.Name,
			URL:         cfg.URL,
			Description: cfg.Description,
		}), pubseo.WithStaticDir(staticDir))
		defer app.Close()
		return app.Start()
	},
}

func init() {
	serveCmd.Flags().StringVar(&staticDir, "static", "public", "directory served under /public")
	rootCmd.AddCommand(serveCmd)
}
