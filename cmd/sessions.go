package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/session"
	"github.com/mediabridge/mediabridge/style"
	"github.com/mediabridge/mediabridge/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringP("filter", "f", "", "Only show sessions whose source fuzzily matches")
	sessionsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	sessionsCmd.Flags().Bool("clear", false, "Forget every journaled session")
	sessionsCmd.MarkFlagsMutuallyExclusive("filter", "clear")
	sessionsCmd.SetOut(os.Stdout)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List media ids that can be re-attached",
	Run: func(cmd *cobra.Command, args []string) {
		journal := session.Default()

		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(journal.Clear())
			fmt.Printf("%s sessions cleared\n", icon.Get(icon.Success))
			return
		}

		entries, err := journal.Find(lo.Must(cmd.Flags().GetString("filter")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("no sessions"))
			return
		}

		for _, e := range entries {
			cmd.Printf(
				"%s %s\n  %s %s\n",
				renderState(e.LastState),
				style.Fg(color.Purple)(e.ID),
				style.Faint(e.Created.Format("2006-01-02 15:04")),
				e.Src,
			)
		}
		cmd.Println()
		cmd.Println(style.Faint(util.Quantify(len(entries), "session", "sessions")))
	},
}
