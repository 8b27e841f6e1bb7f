package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sharedconfig "github.com/ideamans/leadgate/pkg/shared/config"
)

var (
	cfgFile  string
	envFiles []string
	host     string
	port     int
	version  = "dev" // Set by build
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leadgate",
	Short: "LeadGate - OTP-verified lead capture landing page",
	Long: `LeadGate serves a course landing page whose enquiry form only accepts
a lead after the visitor proves ownership of their mobile number with a
one-time password.

OTP delivery, verification and lead storage are delegated to a remote
form endpoint; LeadGate drives the form state, renders the page and
notifies the team when a lead arrives.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := sharedconfig.LoadDotEnv(envFiles...)
		if err != nil {
			return err
		}
		for _, path := range loaded {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded environment from %s\n", path)
		}
		return nil
	},
	// Default to serve command when no subcommand is specified
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "leadgate.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Dotenv files loaded before the config is read")
	rootCmd.PersistentFlags().StringVar(&host, "host", "0.0.0.0", "Server host address")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 4180, "Server port number")
}
