package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/scriptlens/format"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a script and dump its node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}

			encoder, ok := format.New(outputFormat, os.Stdout, includePositions)
			if !ok {
				return fmt.Errorf("unknown format: %s (expected json, line, or text)", outputFormat)
			}
			res := a.newCodebase(".").Parse(data)
			if err := encoder.Encode(res); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, line, text)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include node ranges in text output")

	return cmd
}
