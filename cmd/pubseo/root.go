// Command pubseo serves a pubseo site and inspects its SEO output.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/pubseo"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pubseo",
	Short: "A blog engine with per-post SEO metadata",
	Long: `pubseo serves a blog whose posts and pages carry robots, description,
canonical, Open Graph, Twitter Card and JSON-LD head tags.

Site settings come from a YAML file; secrets come from the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "path to the site config file")
}

// loadConfig reads the config file and overlays environment variables. A
// missing file is only an error when --config was given explicitly.
func loadConfig(cmd *cobra.Command) (pubseo.SiteConfig, error) {
	cfg, err := pubseo.LoadConfig(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return cfg, err
		}
		cfg = pubseo.SiteConfig{}
	}
	cfg.Name = pubseo.EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = pubseo.EnvOr("SITE_URL", cfg.URL)
	cfg.Description = pubseo.EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = pubseo.EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Locale = pubseo.EnvOr("SITE_LOCALE", cfg.Locale)
	cfg.Addr = pubseo.EnvOr("ADDR", cfg.Addr)
	cfg.DatabasePath = pubseo.EnvOr("DATABASE_PATH", cfg.DatabasePath)
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if os.Getenv("COOKIE_SECURE") == "true" {
		cfg.CookieSecure = true
	}
	return cfg, nil
}

// openApp builds an App with its store open and no HTTP setup.
func openApp(cmd *cobra.Command) (*pubseo.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	app := pubseo.New(cfg, pubseo.ViewFuncs{})
	if err := app.Open(); err != nil {
		return nil, err
	}
	return app, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
