package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codalotl/segdiff/internal/viewer"
)

func (a *app) viewCommand() *cobra.Command {
	var f presentFlags
	cmd := &cobra.Command{
		Use:   "view LEFT RIGHT",
		Short: "Browse a comparison interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context(), args[0], args[1], f)
		},
	}
	addPresentFlags(cmd, &f)
	return cmd
}

func (a *app) runView(ctx context.Context, leftName, rightName string, f presentFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	color, err := a.useColor(cfg.Color)
	if err != nil {
		return err
	}

	// Read and parse up front so input errors are reported before the screen is taken over.
	left, right, err := a.readPair(ctx, leftName, rightName)
	if err != nil {
		return err
	}
	if err := structuralProblem(left, right); err != nil {
		return err
	}

	d := left.parsed.Dialect
	load := func(ctx context.Context) (viewer.Comparison, error) {
		res, err := compareDocuments(ctx, cfg, left, right, 0)
		if err != nil {
			return viewer.Comparison{}, err
		}
		return viewer.Comparison{Left: leftName, Right: rightName, Dialect: d, Result: res}, nil
	}
	opts := viewer.Options{
		DiffsOnly:   f.diffsOnly,
		ContextSize: f.contextSize(cfg),
		PinnedIDs:   f.pinnedIDs(cfg, d),
		TypeFilter:  f.typeFilter,
		Color:       color,
	}

	run := a.opts.RunViewer
	if run == nil {
		run = viewer.Run
	}
	return run(ctx, load, opts)
}
