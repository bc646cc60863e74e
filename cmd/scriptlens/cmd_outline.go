package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dhamidi/scriptlens/script/codebase"
	"github.com/dhamidi/scriptlens/script/parser"
)

func newOutlineCmd(a *app) *cobra.Command {
	var before, after int

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "List the top-level functions of a script",
		Long: `List the top-level functions of a script with their doc comment summary.
--before N and --after N print only the function closest to line N.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			mask := parser.MaskOf(parser.KindFunction)

			switch {
			case cmd.Flags().Changed("before"):
				printNearest(w, f.Model.NodeBeforeLine(before, mask))
			case cmd.Flags().Changed("after"):
				printNearest(w, f.Model.NodeAfterLine(after, mask))
			default:
				renderOutline(w, c.Outline(f.Path))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&before, "before", 0, "show the function before this line")
	cmd.Flags().IntVar(&after, "after", 0, "show the function after this line")
	cmd.MarkFlagsMutuallyExclusive("before", "after")

	return cmd
}

func printNearest(w io.Writer, n parser.Node) {
	fn, ok := n.(*parser.Function)
	if !ok {
		fmt.Fprintln(w, n.Text())
		return
	}
	r := fn.Range()
	fmt.Fprintf(w, "%d-%d\t%s\n", r.Start.Line, r.End.Line, fn.Signature())
}

func renderOutline(w io.Writer, entries []codebase.OutlineEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Lines", "Function", "Summary"})
	for _, e := range entries {
		name := e.Signature
		if e.Name == "" {
			name = "(anonymous)"
		}
		t.AppendRow(table.Row{fmt.Sprintf("%d-%d", e.Line, e.EndLine), name, e.Summary})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
	})
	t.Render()
}
