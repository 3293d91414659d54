package cmd

import (
	"fmt"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/media"
	"github.com/mediabridge/mediabridge/session"
	"github.com/mediabridge/mediabridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(attachCmd)

	attachCmd.Flags().BoolP("release", "r", false, "Release the media when detaching")
}

var attachCmd = &cobra.Command{
	Use:   "attach <id> [src]",
	Short: "Re-attach to media created by an earlier run and follow its status",
	Long: `Re-attach to media created by an earlier run and follow its status.
The source may be omitted when the id is in the session journal.`,
	Args: cobra.RangeArgs(1, 2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		entries, err := session.Default().List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(entries, func(e *session.Entry, _ int) string { return e.ID }), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		src, err := attachSource(id, args[1:])
		handleErr(err)

		l, err := connect()
		handleErr(err)

		err = attach(cmd, l, id, src)
		l.Close()
		handleErr(err)
	},
}

func attachSource(id string, rest []string) (string, error) {
	if len(rest) > 0 {
		return rest[0], nil
	}
	entry, ok := session.Default().Get(id).Get()
	if !ok {
		return "", fmt.Errorf("no journaled source for %s, pass it explicitly", id)
	}
	return entry.Src, nil
}

func attach(cmd *cobra.Command, l *link, id, src string) error {
	w := newWatcher(l)
	cb := w.callbacks()
	cb.OnCreate = func(running bool) {
		state := lo.Ternary(running, "running", "idle")
		fmt.Printf("%s attached to %s (%s)\n", icon.Get(icon.Success), style.Fg(color.Purple)(id), state)
	}

	h, err := l.bridge.Create(src, cb, media.WithID(id))
	if err != nil {
		return err
	}
	w.watch(h)

	ctx, cancel := interrupted()
	defer cancel()

	_, err = w.wait(ctx)
	if lo.Must(cmd.Flags().GetBool("release")) {
		l.release(h)
	}
	return err
}
