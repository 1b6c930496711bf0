package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-multipart-stream/cmd/multipart-dump/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
