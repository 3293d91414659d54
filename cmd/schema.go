package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/mediabridge/mediabridge/ipc"
	"github.com/mediabridge/mediabridge/media"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().Bool("request", false, "Generate the schema of command frames sent to the host")
	schemaCmd.Flags().Bool("reply", false, "Generate the schema of reply frames sent by the host")
	schemaCmd.MarkFlagsMutuallyExclusive("request", "reply")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for the messages exchanged with the media host",
	Long: `Generate JSON schemas for the messages exchanged with the media host.
Without flags, prints the schema of status messages pushed through the message channel.`,
	Run: func(cmd *cobra.Command, args []string) {
		var target any = &media.Message{}

		switch {
		case lo.Must(cmd.Flags().GetBool("request")):
			target = &ipc.Request{}
		case lo.Must(cmd.Flags().GetBool("reply")):
			target = &ipc.Reply{}
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflectSchema(target)))
	},
}

func reflectSchema(v any) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "message", "notification", "request", "reply":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	return reflector.Reflect(v)
}
