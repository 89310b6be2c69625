package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codalotl/segdiff/internal/config"
	"github.com/codalotl/segdiff/internal/explain"
	"github.com/codalotl/segdiff/internal/structdiff"
)

func (a *app) explainCommand() *cobra.Command {
	var limit int
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "explain LEFT RIGHT",
		Short: "Describe each modified segment in plain language using a language model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			left, right, err := a.readPair(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := structuralProblem(left, right); err != nil {
				return err
			}
			res, err := compareDocuments(cmd.Context(), cfg, left, right, timeout)
			if err != nil {
				return err
			}

			e, err := a.explainer(cfg)
			if err != nil {
				return err
			}
			exps, err := explain.Rows(cmd.Context(), e, res, left.parsed.Dialect, limit)
			for _, x := range exps {
				m := res.Rows[x.Row].(structdiff.Modified)
				fmt.Fprintf(a.out, "~ %s  ->  %s\n", m.Left.Raw, m.Right.Raw)
				for _, line := range strings.Split(x.Text, "\n") {
					fmt.Fprintf(a.out, "    %s\n", line)
				}
			}
			if err != nil {
				return err
			}
			if len(exps) == 0 {
				fmt.Fprintln(a.out, "no modified segments")
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "explain at most this many segments (0 for all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up on the comparison after this long")
	return cmd
}

// explainer returns the configured explainer wrapped in a cache.
func (a *app) explainer(cfg config.Config) (explain.Explainer, error) {
	e := a.opts.Explainer
	if e == nil {
		o, err := explain.NewOpenAI(explain.OpenAIConfig{
			APIKey:          cfg.Explain.APIKey,
			BaseURL:         cfg.Explain.BaseURL,
			Model:           cfg.Explain.Model,
			MaxPromptTokens: cfg.Explain.MaxPromptTokens,
			MaxRetries:      2,
		})
		if err != nil {
			return nil, err
		}
		e = o
	}
	return explain.Cached{Explainer: e, Cache: explain.NewCache(cfg.Explain.CacheSize)}, nil
}
