// Package cmd implements the mediabridge command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/icon"
	"github.com/mediabridge/mediabridge/key"
	"github.com/mediabridge/mediabridge/log"
	"github.com/mediabridge/mediabridge/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("socket", "", "Socket of a running media host; no host is spawned when set")
	lo.Must0(viper.BindPFlag(key.HostSocket, rootCmd.PersistentFlags().Lookup("socket")))

	rootCmd.PersistentFlags().String("platform", "", "Platform identifier of the media host")
	lo.Must0(viper.BindPFlag(key.BridgePlatform, rootCmd.PersistentFlags().Lookup("platform")))

	rootCmd.PersistentFlags().String("metrics", "", "Expose prometheus metrics on this address")
	lo.Must0(viper.BindPFlag(key.MetricsAddress, rootCmd.PersistentFlags().Lookup("metrics")))
}

var rootCmd = &cobra.Command{
	Use:   constant.Mediabridge,
	Short: "Drive a native media host from the command line",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Drive a native media host from the command line"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
