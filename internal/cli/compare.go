package cli

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/codalotl/segdiff/internal/config"
	"github.com/codalotl/segdiff/internal/rawdiff"
	"github.com/codalotl/segdiff/internal/report"
	"github.com/codalotl/segdiff/internal/simplelogger"
	"github.com/codalotl/segdiff/internal/structdiff"
)

// addPresentFlags registers the flags shared by compare and view.
func addPresentFlags(cmd *cobra.Command, f *presentFlags) {
	fl := cmd.Flags()
	fl.BoolVarP(&f.diffsOnly, "diffs-only", "d", false, "show only differences, pinned segments, and context")
	fl.StringVarP(&f.typeFilter, "type", "t", "", "show only segments with this id")
	fl.IntVarP(&f.context, "context", "C", contextUnset, "rows of context around differences (default from config)")
	fl.StringArrayVar(&f.pins, "pin", nil, "keep segments with this id visible (repeatable)")
	fl.BoolVar(&f.noDefaultPins, "no-default-pins", false, "don't pin the dialect's envelope segments")
}

type compareFlags struct {
	present presentFlags
	format  string
	summary bool
	color   string
	copy    bool
	timeout time.Duration
	width   int
}

func (a *app) compareCommand() *cobra.Command {
	var f compareFlags
	cmd := &cobra.Command{
		Use:   "compare LEFT RIGHT",
		Short: "Compare two documents segment by segment",
		Long: "compare aligns LEFT and RIGHT segment by segment and reports the differences. Either side may be - for stdin.\n\n" +
			"Exit status is 0 if the documents are equal, 1 if they differ, and 2 on error. If a document can't be parsed, or the two are in different dialects, " +
			"text and side output fall back to a line diff.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd, args[0], args[1], f)
		},
	}
	addPresentFlags(cmd, &f.present)
	fl := cmd.Flags()
	fl.StringVarP(&f.format, "format", "f", string(report.FormatText), "output format: text, side, markdown, html, json, or yaml")
	fl.BoolVarP(&f.summary, "summary", "s", false, "print only the summary line")
	fl.StringVar(&f.color, "color", "", "auto, always, or never (default from config)")
	fl.BoolVar(&f.copy, "copy", false, "also copy the output to the clipboard")
	fl.DurationVar(&f.timeout, "timeout", 0, "give up on the comparison after this long")
	fl.IntVarP(&f.width, "width", "w", 0, "side-by-side width (default: terminal width)")
	return cmd
}

func (a *app) runCompare(cmd *cobra.Command, leftName, rightName string, f compareFlags) error {
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if simplelogger.Enabled() {
		simplelogger.Log("compare %s %s: format=%s config=%+v", leftName, rightName, format, cfg.Redacted())
	}
	colorMode := cfg.Color
	if f.color != "" {
		colorMode = f.color
	}
	color, err := a.useColor(colorMode)
	if err != nil {
		return err
	}

	left, right, err := a.readPair(cmd.Context(), leftName, rightName)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var differ bool
	if problem := structuralProblem(left, right); problem != nil {
		if format != report.FormatText && format != report.FormatSide {
			return fmt.Errorf("%w; %s output needs a structural comparison", problem, format)
		}
		simplelogger.Log("compare: line diff fallback: %v", problem)
		differ = writeRawDiff(&buf, cfg, left, right, f, color, problem)
	} else {
		res, err := compareDocuments(cmd.Context(), cfg, left, right, f.timeout)
		if err != nil {
			return err
		}
		differ = structdiff.Summarize(res).HasDifferences()
		if err := a.writeStructural(&buf, cfg, left, right, res, format, f, color); err != nil {
			return err
		}
	}

	if _, err := a.out.Write(buf.Bytes()); err != nil {
		return err
	}
	if f.copy {
		if err := a.copyToClipboard(buf.String()); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	if differ {
		return errDifferences
	}
	return nil
}

func (a *app) writeStructural(w io.Writer, cfg config.Config, left, right document, res structdiff.Result, format report.Format, f compareFlags, color bool) error {
	if f.summary {
		_, err := fmt.Fprintln(w, structdiff.Summarize(res))
		return err
	}
	d := left.parsed.Dialect
	rows := structdiff.Present(res, f.present.options(cfg, d))
	r := report.Build(res, rows, report.Meta{Left: left.name, Right: right.name, Dialect: d})
	return report.Write(w, format, r, report.WriteOptions{Width: a.width(f.width), Color: color})
}

// writeRawDiff writes a unified line diff of the raw inputs and reports whether they differ.
func writeRawDiff(w io.Writer, cfg config.Config, left, right document, f compareFlags, color bool, reason error) bool {
	diff := rawdiff.Compute(string(left.raw), string(right.raw))
	changed := diff.Changed()
	if f.summary {
		if changed {
			fmt.Fprintln(w, "documents differ (line diff)")
		} else {
			fmt.Fprintln(w, "documents are identical")
		}
		return changed
	}
	fmt.Fprintf(w, "line diff: %v\n", reason)
	if out := diff.RenderUnified(color, left.name, right.name, f.present.contextSize(cfg)); out != "" {
		fmt.Fprintln(w, out)
	}
	return changed
}
