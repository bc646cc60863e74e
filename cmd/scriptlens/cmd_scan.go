package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dhamidi/scriptlens/script/parser"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "Parse every script below a directory and summarize the results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runScan(a, dir, cmd.OutOrStdout())
		},
	}
}

func runScan(a *app, dir string, w io.Writer) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	c := a.newCodebase(dir)
	if err := c.ScanAll(); err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Functions", "Diagnostic"})

	counts := map[parser.Severity]int{}
	paths := c.Paths()
	for _, path := range paths {
		f := c.GetFile(path)
		diagnostic := ""
		if e := f.Error(); e.HasError {
			counts[e.Severity]++
			diagnostic = fmt.Sprintf("%s: %s", e.Severity, e.Error())
		}
		t.AppendRow(table.Row{path, len(f.Model.Functions()), diagnostic})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(paths)), "",
		fmt.Sprintf("%d errors, %d warnings", counts[parser.SeverityError], counts[parser.SeverityWarning])})
	t.Render()
	return nil
}
