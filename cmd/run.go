package cmd

import (
	"os"

	"github.com/josephlewis42/pipesh/core"
	"github.com/josephlewis42/pipesh/core/config"
	"github.com/spf13/cobra"
)

var runLine string

// runCmd executes without a session: no prompt, no history, no event
// log. The process exit status is the pipeline's exit status.
var runCmd = &cobra.Command{
	Use:   "run [SCRIPT]",
	Short: "Run a command line or script without starting a session.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		// One-shot runs work without init.
		configuration, err := config.Load(cfgPath)
		if err != nil {
			configuration = config.Default()
		}

		sh, err := core.NewShell(configuration, nil, false)
		if err != nil {
			return err
		}
		defer sh.Close()

		var status int
		switch {
		case runLine != "":
			status, _ = sh.Interpret(runLine)
		case len(args) == 1:
			fd, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fd.Close()
			status = sh.RunLines(fd)
		default:
			status = sh.RunLines(os.Stdin)
		}

		if status != 0 {
			os.Exit(status)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runLine, "command", "c", "", "run this command line instead of a script")
	rootCmd.AddCommand(runCmd)
}
