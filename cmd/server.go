package cmd

import (
	"DriftFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the DriftFM playback daemon",
	Long:  `Start the DriftFM HTTP server exposing the playback control API and the websocket state stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
