package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideamans/leadgate/pkg/landing/config"
	sharedconfig "github.com/ideamans/leadgate/pkg/shared/config"
)

// testConfigCmd represents the test-config command
var testConfigCmd = &cobra.Command{
	Use:   "test-config",
	Short: "Validate the configuration file",
	Long: `Test and validate the configuration file without starting the server.

This command will:
- Load the configuration file from the specified path
- Expand ${VAR} references and report unset variables
- Validate all fields
- Print a summary of the effective configuration

If the configuration is valid, the command exits with status 0.
If there are validation errors, the command exits with status 1.`,
	RunE: runTestConfig,
}

func init() {
	rootCmd.AddCommand(testConfigCmd)
}

func runTestConfig(cmd *cobra.Command, args []string) error {
	return testConfig(cmd.OutOrStdout(), cfgFile)
}

func testConfig(out io.Writer, path string) error {
	fmt.Fprintf(out, "Testing configuration file: %s\n", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := config.NewFileLoader(path).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	fmt.Fprintln(out, "✓ Configuration file loaded successfully")

	if refs := sharedconfig.ExtractEnvVars(string(raw)); len(refs) > 0 {
		fmt.Fprintf(out, "  Environment variables referenced: %s\n", strings.Join(refs, ", "))
	}
	if missing := sharedconfig.MissingEnvVars(string(raw)); len(missing) > 0 {
		fmt.Fprintf(out, "! Unset environment variables: %s\n", strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Configuration validation passed")

	fmt.Fprintln(out, "\nConfiguration Summary:")
	fmt.Fprintf(out, "  Service Name: %s\n", cfg.Service.Name)
	if cfg.Remote.Endpoint != "" {
		fmt.Fprintf(out, "  Form Endpoint: %s (timeout %s)\n", cfg.Remote.Endpoint, cfg.Remote.GetTimeout())
	} else {
		fmt.Fprintf(out, "  Form Endpoint: local stub (OTP %s)\n", cfg.Remote.StubOTP)
	}
	if cfg.Remote.Breaker.Disabled {
		fmt.Fprintln(out, "  Circuit Breaker: disabled")
	} else {
		fmt.Fprintf(out, "  Circuit Breaker: opens after %d failures for %s\n", cfg.Remote.Breaker.MaxFailures, cfg.Remote.Breaker.GetTimeout())
	}
	fmt.Fprintf(out, "  OTP Cooldown: %s\n", cfg.Flow.GetCooldown())
	fmt.Fprintf(out, "  Agreement Required: %t\n", cfg.Flow.GetRequireAgreement())
	fmt.Fprintf(out, "  Redirect: %s after %s\n", cfg.Flow.RedirectURL, cfg.Flow.GetRedirectDelay())

	fmt.Fprintf(out, "  Default KVS: %s\n", cfg.KVS.Default.Type)
	if cfg.KVS.Session != nil {
		fmt.Fprintf(out, "  Session KVS: %s (dedicated)\n", cfg.KVS.Session.Type)
	} else {
		fmt.Fprintf(out, "  Session KVS: %s (shared with namespace: %s)\n", cfg.KVS.Default.Type, cfg.KVS.Namespaces.Session)
	}
	if cfg.KVS.Cooldown != nil {
		fmt.Fprintf(out, "  Cooldown KVS: %s (dedicated)\n", cfg.KVS.Cooldown.Type)
	} else {
		fmt.Fprintf(out, "  Cooldown KVS: %s (shared with namespace: %s)\n", cfg.KVS.Default.Type, cfg.KVS.Namespaces.Cooldown)
	}

	if cfg.RateLimit.Disabled {
		fmt.Fprintln(out, "  IP Rate Limit: disabled")
	} else {
		fmt.Fprintf(out, "  IP Rate Limit: %d/min (burst %d)\n", cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}

	if cfg.Notify.Email.Enabled {
		fmt.Fprintf(out, "  Email Notify: enabled (%s)\n", cfg.Notify.Email.SenderType)
	} else {
		fmt.Fprintln(out, "  Email Notify: disabled")
	}
	if cfg.Notify.Telegram.Enabled {
		fmt.Fprintf(out, "  Telegram Notify: enabled (chat %d)\n", cfg.Notify.Telegram.ChatID)
	} else {
		fmt.Fprintln(out, "  Telegram Notify: disabled")
	}

	if cfg.Metrics.IsEnabled() {
		fmt.Fprintf(out, "  Metrics: %s\n", cfg.Metrics.Path)
	} else {
		fmt.Fprintln(out, "  Metrics: disabled")
	}
	fmt.Fprintf(out, "  Testimonials: %d\n", len(cfg.Page.Testimonials))

	fmt.Fprintln(out, "\n✓ Configuration is valid and ready to use")
	return nil
}
