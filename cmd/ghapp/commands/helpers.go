// Package commands implements the ghapp CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/fivetwenty-io/ghapp/pkg/ghclient"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// buildClient constructs the wrapper from CLI configuration.
func buildClient() (ghapp.Client, error) {
	logLevel := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		logLevel = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel).With().Timestamp().Logger()

	cli, err := ghclient.New(&ghapp.Config{
		AppID:          viper.GetInt64("app-id"),
		InstallationID: viper.GetInt64("installation-id"),
		PrivateKey:     viper.GetString("private-key"),
		BaseURL:        viper.GetString("base-url"),
		Debug:          viper.GetBool("verbose"),
		Logger:         ghapp.NewZerologLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	return cli, nil
}

// outputFormat resolves the requested output format. When unset, a terminal
// gets a table and anything piped gets JSON.
func outputFormat() string {
	format := viper.GetString("output")
	if format != "" {
		return format
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}

	return "json"
}

// renderStructured writes v as JSON or YAML to stdout.
func renderStructured(format string, v interface{}) error {
	switch format {
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(v)
	default:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(v)
	}
}
