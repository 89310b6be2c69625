package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) segmentsCommand() *cobra.Command {
	var typeFilter string
	cmd := &cobra.Command{
		Use:   "segments FILE",
		Short: "List the segments of a document as segdiff parses them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			if doc.parseErr != nil {
				return fmt.Errorf("%s: %w", doc.name, doc.parseErr)
			}

			p := doc.parsed
			dl := p.Delimiters
			fmt.Fprintf(a.out, "%s: %s, %d segments (element %q, component %q, segment %q)\n", doc.name, p.Dialect, len(p.Segments), dl.Element, dl.Component, dl.Segment)
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, s := range p.Segments {
				if typeFilter != "" && s.ID != typeFilter {
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.LineNumber, s.ID, s.Raw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "list only segments with this id")
	return cmd
}
