package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pepicrft/micelio/pkg/hash"
)

func newHashCmd() *cobra.Command {
	var asBlob bool

	cmd := &cobra.Command{
		Use:   "hash [file]",
		Short: "Compute the content hash of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var digest hash.Digest
			if asBlob {
				digest = hash.HashBlob(data)
			} else {
				digest = hash.Hash(data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), digest.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asBlob, "blob", false, "hash as a typed blob (prefix the content with \"blob\"+length)")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(cmd.InOrStdin())
}
