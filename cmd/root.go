// Package cmd implements the command-line interface for storyscrape.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JONGYYY/storyscrape/cmd/httpd"
	cmdscrape "github.com/JONGYYY/storyscrape/cmd/scrape"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "storyscrape",
		Short: "Reddit story scraping service",
		Long:  `Fetches Reddit post text through a multi-strategy anti-bot pipeline and serves it over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so credential variables are available to Viper.
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscrape.Command())
}

// initConfig reads in the config file and environment variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; env vars and defaults cover everything.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	if debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
	}

	return nil
}

// bindEnvVars maps credential environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.debug":            {"APP_DEBUG"},
		"logger.level":         {"LOG_LEVEL"},
		"logger.encoding":      {"LOG_FORMAT"},
		"reddit.client_id":     {"REDDIT_CLIENT_ID"},
		"reddit.client_secret": {"REDDIT_CLIENT_SECRET"},
		"reddit.refresh_token": {"REDDIT_REFRESH_TOKEN"},
		"reddit.user_agent":    {"REDDIT_USER_AGENT"},
	}

	for key, envVars := range bindings {
		if err := viper.BindEnv(append([]string{key}, envVars...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return nil
}

// setDefaults sets production-safe default configuration values.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":  "storyscrape",
		"debug": false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"encoding":     "json",
		"development":  false,
		"enable_color": false,
		"output_paths": []string{"stdout"},
	})

	viper.SetDefault("server", map[string]any{
		"address":           ":8080",
		"read_timeout":      "15s",
		"write_timeout":     "45s",
		"idle_timeout":      "60s",
		"rate_limit":        5,
		"rate_limit_window": "10s",
	})

	viper.SetDefault("reddit", map[string]any{
		"token_url":  "https://www.reddit.com/api/v1/access_token",
		"user_agent": "storyscrape/1.0",
	})

	viper.SetDefault("scraper", map[string]any{
		"deadline":           "30s",
		"max_response_bytes": 10 * 1024 * 1024,
	})
}
