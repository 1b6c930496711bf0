package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	multipart "github.com/zostay/go-multipart-stream"
)

var (
	dumpBoundary string
	dumpInput    string

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "List the fields in a multipart/form-data body",
		RunE:  Dump,
	}
)

func init() {
	dumpCmd.Flags().StringVar(&dumpBoundary, "boundary", "", "boundary string (required)")
	dumpCmd.Flags().StringVar(&dumpInput, "file", "-", "input file, or - for stdin")
	_ = dumpCmd.MarkFlagRequired("boundary")
}

func Dump(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if dumpInput != "-" {
		f, err := os.Open(dumpInput)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	r := multipart.NewReader(in, dumpBoundary)
	for i := 0; ; i++ {
		p, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		n, err := io.Copy(io.Discard, p)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d: name=%q filename=%q content-type=%q size=%d\n",
			i, p.Header.Name, p.Header.Filename, p.Header.ContentType, n)
	}
}
