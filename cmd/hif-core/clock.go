package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pepicrft/micelio/pkg/hlc"
)

func newClockCmd(logger *zap.Logger) *cobra.Command {
	var nodeID uint32

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Print a hybrid logical clock timestamp for this node",
		RunE: func(cmd *cobra.Command, args []string) error {
			clock := hlc.New(nodeID)
			ts := clock.Now()
			logger.Debug("advanced clock", zap.Uint32("node_id", nodeID))
			fmt.Fprintf(cmd.OutOrStdout(), "pt=%d l=%d node_id=%d\n", ts.PT, ts.L, ts.NodeID)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&nodeID, "node-id", 0, "this node's identifier")
	return cmd
}
