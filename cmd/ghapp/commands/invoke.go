package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/spf13/cobra"
)

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand() *cobra.Command {
	var (
		params  []string
		noRetry bool
	)

	cmd := &cobra.Command{
		Use:   "invoke <operation> [args...]",
		Short: "Dispatch a named API operation",
		Long: `Dispatch an arbitrary named operation through the wrapper.

Operations are rate-limit governed and retried like any library call, e.g.:

  ghapp invoke get /repos/acme/widgets
  ghapp invoke search_issues "repo:acme/widgets is:open" --param sort=created
  ghapp invoke create_issue acme widgets --param title="Broken build"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := buildClient()
			if err != nil {
				return err
			}

			operation := args[0]
			if !cli.Supports(operation) {
				return fmt.Errorf("%w: %s (known: %s)",
					ghapp.ErrOperationNotSupported, operation, strings.Join(cli.Operations(), ", "))
			}

			opArgs := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				opArgs = append(opArgs, arg)
			}

			opts := []ghapp.CallOption{}
			if noRetry {
				opts = append(opts, ghapp.WithoutRetry())
			}

			if parsed := parseParams(params); len(parsed) > 0 {
				opts = append(opts, ghapp.WithParams(parsed))
			}

			resp, err := cli.Do(cmd.Context(), operation, opArgs, opts...)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(append(resp.Body, '\n'))

			return err
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "keyword parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&noRetry, "no-retry", false, "invoke exactly once, without the retry engine")

	return cmd
}

// parseParams turns key=value pairs into a params map.
func parseParams(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}

	params := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}

		params[key] = value
	}

	return params
}
