package cmd

import (
	"fmt"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Float64("volume", 1, "Playback volume, from 0.0 to 1.0")
	playCmd.Flags().Float64("rate", 1, "Playback rate; only honored by ios and darwin hosts")
	playCmd.Flags().Int("seek", 0, "Start position in milliseconds")
	playCmd.Flags().BoolP("keep", "k", false, "Leave the media alive on exit so it can be attached later")
}

var playCmd = &cobra.Command{
	Use:   "play <src>",
	Short: "Play a media source and follow its status until it stops",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		l, err := connect()
		handleErr(err)

		err = play(cmd, l, args[0])
		l.Close()
		handleErr(err)
	},
}

func play(cmd *cobra.Command, l *link, src string) error {
	w := newWatcher(l)
	h, err := l.bridge.Create(src, w.callbacks())
	if err != nil {
		return err
	}
	w.watch(h)

	if cmd.Flags().Changed("volume") {
		if err := h.SetVolume(lo.Must(cmd.Flags().GetFloat64("volume"))); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("rate") {
		if err := h.SetRate(lo.Must(cmd.Flags().GetFloat64("rate"))); err != nil {
			return err
		}
	}
	if err := h.Play(nil); err != nil {
		return err
	}
	if seek := lo.Must(cmd.Flags().GetInt("seek")); seek > 0 {
		if err := h.SeekTo(seek); err != nil {
			return err
		}
	}

	ctx, cancel := interrupted()
	defer cancel()

	keep := lo.Must(cmd.Flags().GetBool("keep"))
	cancelled, err := w.wait(ctx)
	if cancelled && !keep {
		_ = h.Stop()
		err = w.settle()
	}

	if keep {
		fmt.Printf("%s kept %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(h.ID()))
	} else {
		l.release(h)
	}

	if err != nil {
		return err
	}

	fmt.Printf(
		"%s %s %s / %s\n",
		icon.Get(icon.Success),
		style.Bold(h.Src()),
		style.Fg(color.Yellow)(formatSeconds(h.Position())),
		style.Faint(formatSeconds(h.GetDuration())),
	)
	return nil
}
