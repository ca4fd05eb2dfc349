package service

import (
	"fmt"

	"hodolog/app/config"

	"github.com/spf13/cobra"
)

// Version is the CLI version reported by the version command.
const Version = "1.0.0"

type rootOptions struct {
	configFile string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewRootCmd creates the hodolog command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hodolog",
		Short:         "Blog post API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path")

	cmd.AddCommand(
		newServeCommand(opts),
		newDBCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hodolog version %s\n", Version)
		},
	}
}
