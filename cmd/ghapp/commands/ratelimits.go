package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRateLimitsCommand creates the rate-limits command.
func NewRateLimitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limits",
		Short: "Show rate-limit quotas",
		Long:  "Display the current rate-limit quota state for every category the service reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := buildClient()
			if err != nil {
				return err
			}

			snapshot, err := cli.RateLimits(cmd.Context())
			if err != nil {
				return err
			}

			format := outputFormat()
			if format != "table" {
				return renderStructured(format, snapshot)
			}

			categories := make([]string, 0, len(snapshot))
			for category := range snapshot {
				categories = append(categories, category)
			}

			sort.Strings(categories)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Category", "Limit", "Used", "Remaining", "Resets")

			for _, category := range categories {
				status := snapshot[category]
				_ = table.Append(
					category,
					strconv.Itoa(status.Limit),
					strconv.Itoa(status.Used),
					strconv.Itoa(status.Remaining),
					status.Reset.Format(time.RFC3339),
				)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
