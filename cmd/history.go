package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"DriftFM/cache"
	"DriftFM/config"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Dump the persisted play history",
	Long:  `Read the play history persisted in Redis and print it as indented JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if err := cache.ConnectRedis(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer cache.CloseRedis()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store := cache.NewRedisHistoryStore()
		tracks, err := store.Load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load history: %v\n", err)
			os.Exit(1)
		}

		out, err := json.MarshalIndent(tracks, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
