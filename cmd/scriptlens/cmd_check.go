package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/scriptlens/script/codebase"
	"github.com/dhamidi/scriptlens/script/parser"
)

func newCheckCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report the diagnostic of each script",
		Long: `Parse each file and print its diagnostic. The command fails when any
file has an error. With --watch the single argument is a directory that is
polled for changes until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch takes exactly one directory")
				}
				return runWatch(cmd.Context(), a, args[0], cmd.OutOrStdout())
			}
			return runCheck(a, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "poll a directory and report changes")

	return cmd
}

func runCheck(a *app, paths []string, w io.Writer) error {
	failed := 0
	for _, path := range paths {
		_, f, err := a.load(path)
		if err != nil {
			return err
		}
		printDiagnostic(w, path, f.Error())
		if e := f.Error(); e.HasError && e.Severity == parser.SeverityError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) with errors", failed)
	}
	return nil
}

func runWatch(ctx context.Context, a *app, dir string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := codebase.NewFileWatcher(a.newCodebase(dir), a.cfg.PollInterval)
	watcher.OnChange = func(path string, f *codebase.FileInfo) {
		if f == nil {
			fmt.Fprintf(w, "%s: %s\n", path, color.New(color.Faint).Sprint("removed"))
			return
		}
		printDiagnostic(w, path, f.Error())
	}
	watcher.Start()
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}

func printDiagnostic(w io.Writer, path string, e parser.ErrorState) {
	if !e.HasError {
		fmt.Fprintf(w, "%s: %s\n", path, color.GreenString("ok"))
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s", path, e.Line, e.Column, severityColor(e.Severity).Sprint(e.Severity), e.Message)
	if e.AffectedLine > 0 {
		fmt.Fprintf(w, " (see line %d)", e.AffectedLine)
	}
	fmt.Fprintln(w)
}

func severityColor(s parser.Severity) *color.Color {
	switch s {
	case parser.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case parser.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
