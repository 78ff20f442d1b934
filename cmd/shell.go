package cmd

import (
	"os"

	"github.com/josephlewis42/pipesh/core"
	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// shellCmd starts the interactive read loop. It is also the default
// when pipesh is invoked without a subcommand.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell session.",
	Args:  cobra.ExactArgs(0),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	eventFd, err := configuration.OpenEventLog()
	if err != nil {
		return err
	}
	defer eventFd.Close()
	events := logger.NewJSONLinesRecorder(eventFd)

	// When stdin is not a terminal the session runs in script mode:
	// plain line reads, no prompt, no readline.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	sh, err := core.NewShell(configuration, events, interactive)
	if err != nil {
		return err
	}
	defer sh.Close()

	var status int
	if interactive {
		status = sh.Run()
	} else {
		status = sh.RunLines(os.Stdin)
	}

	if status != 0 {
		os.Exit(status)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
	rootCmd.RunE = runShell
}
