package main

import (
	"github.com/spf13/cobra"

	"github.com/vnykmshr/goshout/internal/config"
)

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "goshout",
		Short: "Stream encoded media to a server through a buffered format sink",
		Long: `goshout reads an encoded media stream from a file or stdin and pushes it,
byte for byte, to a streaming server over TCP or onto a Redis stream.

Defaults come from GOSHOUT_* environment variables and a .env file in the
working directory. Flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSendCmd(cfg))
	root.AddCommand(newFormatsCmd())
	return root
}
