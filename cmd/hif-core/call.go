package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pepicrft/micelio/hiferrors"
	"github.com/pepicrft/micelio/pkg/grpcclient"
)

func newCallCmd(logger *zap.Logger) *cobra.Command {
	var (
		authority string
		authToken string
		useTLS    bool
		inPath    string
	)

	cmd := &cobra.Command{
		Use:   "call <target> <method>",
		Short: "Issue a single gRPC unary call over raw HTTP/2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, method := args[0], args[1]

			var requestBytes []byte
			var err error
			if inPath != "" {
				requestBytes, err = os.ReadFile(inPath)
				if err != nil {
					return err
				}
			}

			resp, err := grpcclient.UnaryCall(cmd.Context(), target, authority, method, requestBytes, authToken, useTLS)
			if err != nil {
				_ = hiferrors.LogError(logger, err, "unary call failed", zap.String("target", target), zap.String("method", method))
				return err
			}

			_, err = cmd.OutOrStdout().Write(resp)
			return err
		},
	}

	cmd.Flags().StringVar(&authority, "authority", "", "HTTP/2 :authority value (defaults to target; TLS SNI always uses the target host)")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "bearer token sent as the authorization header")
	cmd.Flags().BoolVar(&useTLS, "tls", true, "use TLS (h2) instead of cleartext")
	cmd.Flags().StringVar(&inPath, "in", "", "path to the request payload (default: empty body)")

	return cmd
}
