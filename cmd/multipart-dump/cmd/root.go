package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "multipart-dump",
	Short: "Inspect a multipart/form-data body",
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
