// Command hif-core exposes the transport and coordination primitives —
// content hashing, bloom filters, the hybrid logical clock, and the
// unary gRPC client — as a small CLI, mirroring the plugin-style root
// command the library's CLI convention uses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pepicrft/micelio/internal/logging"
	"github.com/pepicrft/micelio/version"
)

var debugMode bool

func main() {
	logger, err := logging.New(debugMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hif-core: failed to start logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:     "hif-core",
		Short:   "Transport and coordination primitives for hif",
		Version: version.String,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !debugMode {
			return nil
		}
		// The logger is built before flags are parsed; rebuild it at debug
		// level in place so every subcommand holding it picks up --debug.
		debugLogger, err := logging.New(true)
		if err != nil {
			return err
		}
		*logger = *debugLogger
		return nil
	}
	root.SetVersionTemplate(fmt.Sprintf("hif-core %s (abi %d)\n", version.String, version.ABI))

	root.AddCommand(
		newHashCmd(),
		newBloomCmd(),
		newClockCmd(logger),
		newCallCmd(logger),
	)
	return root
}
