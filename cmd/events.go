package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/josephlewis42/pipesh/core/logger"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell's command event log.",
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "Show logged command lines and their exit statuses.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 4, ' ', 0)
		defer tw.Flush()

		fmt.Fprintln(tw, "TIME\tSTATUS\tCMDS\tLINE")
		if err := logger.ReadJSONLinesLog(fd, func(ev *logger.Event) {
			ts := time.UnixMicro(ev.TimestampMicros).Format(time.RFC3339)
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", ts, ev.ExitStatus, ev.NumCommands, ev.Line)
		}); err != nil {
			return err
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(listCommand)
}
