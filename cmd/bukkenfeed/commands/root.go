// Package commands implements the CLI commands for bukkenfeed.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bukkenfeed",
	Short: "Build a rebranded property feed from a listing site",
	Long: `Bukkenfeed crawls a real-estate listing index, extracts each
property into a structured record, downloads and watermarks its images,
and writes the combined result as a static properties.json feed.

Examples:
  # Crawl up to 20 new listings into public/suumo
  bukkenfeed crawl --url "https://suumo.jp/ikkodate/..."

  # Continue a previous run, keeping existing records
  bukkenfeed crawl --url "https://suumo.jp/ikkodate/..." --resume

  # Re-stamp every downloaded image after a logo change
  bukkenfeed crawl --reprocess-images

  # Convert the feed for downstream ingestion
  bukkenfeed export --format jsonl`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.bukkenfeed.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".bukkenfeed")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BUKKENFEED")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
