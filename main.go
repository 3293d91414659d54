// Package main is the entry point of the mediabridge CLI.
package main

import (
	"github.com/mediabridge/mediabridge/cmd"
	"github.com/mediabridge/mediabridge/config"
	"github.com/mediabridge/mediabridge/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
