package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/factory"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

var (
	probeMobile string
	probeOTP    string
)

// probeCmd groups commands that call the form endpoint directly
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Call the form endpoint directly",
	Long: `Send a single action to the configured form endpoint and print its reply.

Useful to check endpoint credentials and connectivity before going live.
The request goes through the same client, timeout and circuit breaker the
server uses.`,
}

var probeSendOTPCmd = &cobra.Command{
	Use:   "send-otp",
	Short: "Ask the endpoint to send an OTP to --mobile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(cmd, remote.ActionSendOTP)
	},
}

var probeVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check --otp for --mobile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProbe(cmd, remote.ActionVerify)
	},
}

func init() {
	probeCmd.PersistentFlags().StringVar(&probeMobile, "mobile", "", "10-digit mobile number")
	_ = probeCmd.MarkPersistentFlagRequired("mobile")
	probeVerifyCmd.Flags().StringVar(&probeOTP, "otp", "", "OTP received on the mobile")
	_ = probeVerifyCmd.MarkFlagRequired("otp")

	probeCmd.AddCommand(probeSendOTPCmd, probeVerifyCmd)
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, action remote.Action) error {
	cfg, err := config.NewFileLoader(cfgFile).Load()
	if err != nil {
		return err
	}
	if cfg.Remote.Endpoint == "" {
		return fmt.Errorf("remote.endpoint is not set in %s", cfgFile)
	}

	logger := logging.NewSimpleLogger("probe", logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Color)
	client := factory.NewDefaultFactory(host, port, logger).CreateRemoteClient(cfg.Remote, nil)

	return probe(cmd.Context(), cmd.OutOrStdout(), client, action, probeMobile, probeOTP)
}

// probe performs one action and prints the endpoint's reply.
func probe(ctx context.Context, out io.Writer, client remote.Client, action remote.Action, mobile, otp string) error {
	if !lead.ValidMobile(mobile) {
		return fmt.Errorf("invalid mobile %q: 10 digits required", mobile)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "Calling %s for %s\n", action, lead.MaskMobile(mobile))
	resp, err := client.Perform(ctx, action, remote.Fields(action, mobile, otp, nil))
	if resp != nil {
		fmt.Fprintf(out, "  status:  %s\n", resp.Status)
		fmt.Fprintf(out, "  message: %s\n", resp.Message)
	}
	if err != nil {
		fmt.Fprintf(out, "  outcome: %s\n", remote.Outcome(err))
		return err
	}
	fmt.Fprintln(out, "✓ Endpoint accepted the request")
	return nil
}
