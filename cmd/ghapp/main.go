package main

import (
	"fmt"
	"os"

	"github.com/fivetwenty-io/ghapp/cmd/ghapp/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ghapp",
	Short: "GitHub App installation client",
	Long: `A command-line interface for GitHub App installations.

Mints installation access tokens from an app's private key, inspects
rate-limit quotas, and dispatches arbitrary API operations through the
rate-limit-aware, retrying client wrapper.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.ghapp/config.yml)")
	rootCmd.PersistentFlags().Int64("app-id", 0, "GitHub App ID")
	rootCmd.PersistentFlags().Int64("installation-id", 0, "installation ID")
	rootCmd.PersistentFlags().StringP("private-key", "k", "", "private key (PEM file path or inline; defaults to GITHUB_APP_PRIVATE_KEY)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL (for GitHub Enterprise)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("app-id", rootCmd.PersistentFlags().Lookup("app-id"))
	_ = viper.BindPFlag("installation-id", rootCmd.PersistentFlags().Lookup("installation-id"))
	_ = viper.BindPFlag("private-key", rootCmd.PersistentFlags().Lookup("private-key"))
	_ = viper.BindPFlag("base-url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewRateLimitsCommand())
	rootCmd.AddCommand(commands.NewInvokeCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home + "/.ghapp")
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("GHAPP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
