package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const amplitudeWidth = 30

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().Duration("for", 0, "Stop recording after this long; records until interrupted when zero")
	recordCmd.Flags().Bool("meter", true, "Show the input level while recording")
}

var recordCmd = &cobra.Command{
	Use:   "record <dst>",
	Short: "Record audio into a destination until stopped",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		l, err := connect()
		handleErr(err)

		err = record(cmd, l, args[0])
		l.Close()
		handleErr(err)
	},
}

func record(cmd *cobra.Command, l *link, dst string) error {
	w := newWatcher(l)
	h, err := l.bridge.Create(dst, w.callbacks())
	if err != nil {
		return err
	}
	w.watch(h)

	if err := h.StartRecord(); err != nil {
		return err
	}

	ctx, cancel := interrupted()
	defer cancel()
	if d := lo.Must(cmd.Flags().GetDuration("for")); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if lo.Must(cmd.Flags().GetBool("meter")) {
		go meter(ctx, w)
	}

	cancelled, err := w.wait(ctx)
	if cancelled {
		_ = h.StopRecord()
		err = w.settle()
	}
	l.release(h)

	if err != nil {
		return err
	}

	fmt.Printf("%s recorded into %s\n", icon.Get(icon.Record), style.Fg(color.Purple)(dst))
	return nil
}

// meter polls the input amplitude once per second and prints it as a bar.
func meter(ctx context.Context, w *watcher) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := w.handle.Load()
			if h == nil {
				continue
			}
			_ = h.GetCurrentAmplitude(func(a float64) {
				fmt.Println(renderAmplitude(a))
			}, nil)
		}
	}
}

func renderAmplitude(a float64) string {
	a = lo.Clamp(a, 0, 1)
	filled := int(a * amplitudeWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", amplitudeWidth-filled)
	return fmt.Sprintf("%s %s %s", icon.Get(icon.Record), style.Fg(color.Green)(bar), style.Faint(fmt.Sprintf("%.2f", a)))
}
