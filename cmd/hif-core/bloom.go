package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pepicrft/micelio/pkg/bloom"
)

func newBloomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bloom",
		Short: "Build and query bloom filters",
	}
	cmd.AddCommand(newBloomBuildCmd(), newBloomCheckCmd())
	return cmd
}

func newBloomBuildCmd() *cobra.Command {
	var expectedItems int
	var fpRate float64
	var outPath string

	cmd := &cobra.Command{
		Use:   "build [paths-file]",
		Short: "Build a bloom filter from newline-separated paths and write its serialized form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			filter, err := bloom.New(expectedItems, fpRate)
			if err != nil {
				return err
			}

			scanner := bufio.NewScanner(bytes.NewReader(data))
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				filter.AddPath(line)
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			serialized := filter.Serialize()
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(serialized)
				return err
			}
			return os.WriteFile(outPath, serialized, 0o644)
		},
	}

	cmd.Flags().IntVar(&expectedItems, "n", 1000, "expected number of items")
	cmd.Flags().Float64Var(&fpRate, "p", 0.01, "target false positive rate")
	cmd.Flags().StringVar(&outPath, "out", "", "output path for the serialized filter (default stdout)")
	return cmd
}

func newBloomCheckCmd() *cobra.Command {
	var filterPath string

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check whether a path may be a member of a serialized bloom filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(filterPath)
			if err != nil {
				return err
			}
			filter, err := bloom.Deserialize(raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filter.MayContain([]byte(args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "path to a serialized bloom filter")
	_ = cmd.MarkFlagRequired("filter")
	return cmd
}
