package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephlewis42/pipesh/core/shell"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// parseCmd shows what the shell would do with a line without running
// anything, for debugging tokenizer and parser behavior.
var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Tokenize and parse a command line without executing it.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		line := strings.Join(args, " ")
		fmt.Fprintf(cmd.OutOrStdout(), "tokens: %q\n", shell.Tokenize(line))

		pipeline, err := shell.Parse(line)
		if errors.Is(err, shell.ErrEmptyLine) {
			fmt.Fprintln(cmd.OutOrStdout(), "empty line")
			return nil
		}
		if err != nil {
			return err
		}
		defer pipeline.Release()

		out, err := yaml.Marshal(pipeline)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
