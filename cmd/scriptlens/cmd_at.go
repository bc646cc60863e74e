package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAtCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "at <file> <line> <column>",
		Short: "Describe the node at a position",
		Long:  "Describe the innermost node at a 1-based line and 0-based column.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			column, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[2], err)
			}

			c, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			hover, ok := c.HoverAt(f.Path, line, column)
			if !ok {
				return fmt.Errorf("no node at %d:%d", line, column)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\t%s\t%s\n", hover.Node.Kind(), hover.Node.ID(), hover.Node.Range())
			fmt.Fprintln(w)
			fmt.Fprintln(w, hover.Markdown)
			return nil
		},
	}
}
