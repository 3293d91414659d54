package cmd

import (
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/mediabridge/mediabridge/color"
	"github.com/mediabridge/mediabridge/constant"
	"github.com/mediabridge/mediabridge/key"
	"github.com/mediabridge/mediabridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionTemplate = lo.Must(template.New("version").Funcs(map[string]any{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Host platform" }}   {{ bold .HostPlatform }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App          string
			Version      string
			Revision     string
			BuiltAt      string
			BuiltBy      string
			OS           string
			Arch         string
			HostPlatform string
		}{
			App:          constant.Mediabridge,
			Version:      constant.Version,
			Revision:     constant.Revision,
			BuiltAt:      strings.TrimSpace(constant.BuiltAt),
			BuiltBy:      constant.BuiltBy,
			OS:           runtime.GOOS,
			Arch:         runtime.GOARCH,
			HostPlatform: viper.GetString(key.BridgePlatform),
		}))
	},
}
