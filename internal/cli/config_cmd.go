package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codalotl/segdiff/internal/config"
)

func (a *app) configCommand() *cobra.Command {
	var origins bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if origins {
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				for _, k := range config.Keys() {
					fmt.Fprintf(tw, "%s\t%s\n", k, cfg.Origins[k])
				}
				return tw.Flush()
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg.Redacted())
		},
	}
	cmd.Flags().BoolVar(&origins, "origins", false, "print where each key's value came from instead")
	cmd.AddCommand(a.configSetCommand(), a.configPathCommand())
	return cmd
}

func (a *app) configSetCommand() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a key in the project config file (or the user file with --global)",
		Long:  "set writes KEY to a config file. String lists are comma-separated. An empty VALUE removes the key.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.loader()
			path := l.ProjectPath()
			if global {
				path = l.UserPath()
				if path == "" {
					return fmt.Errorf("no home directory for the user config file")
				}
			}
			if err := config.Set(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "set %s in %s\n", args[0], path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&global, "global", "g", false, "write the user config file")
	return cmd
}

func (a *app) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := a.loader()
			fmt.Fprintf(a.out, "user:    %s\n", l.UserPath())
			fmt.Fprintf(a.out, "project: %s\n", l.ProjectPath())
			return nil
		},
	}
}
