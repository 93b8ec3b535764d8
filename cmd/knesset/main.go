package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "knesset",
	Short: "Knesset legislative-activity service",
	Long: `Knesset tracks parliamentary votes, bills and members.

It classifies roll-call votes against party and bloc stands, derives each
bill's position in the legislative pipeline, computes voting-discipline
statistics, and serves the results over HTTP.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
