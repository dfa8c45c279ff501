package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// usageLine is printed to stdout when the argument count is wrong.
const usageLine = "Usage: transferowner <fileId> <newOwnerEmail>"

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by --version
func SetVersion(v string) {
	version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the flag values of the root command.
type rootOptions struct {
	configFile    string
	credentials   string
	token         string
	logLevel      string
	logFormat     string
	driveEndpoint string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "transferowner <fileId> <newOwnerEmail>",
		Short: "Transfer ownership of a Google Drive file to another user",
		Long: `transferowner makes another user the pending owner of a Google Drive file.

Google emails the new owner, who has to accept before ownership moves.
The first run prints an authorization URL and asks for the code shown after
granting access; the resulting token is cached for later runs.

Credentials and the token cache default to credentials.json and token.json
next to the executable.`,
		Version:       version,
		Args:          exactTwoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, opts, args[0], args[1])
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetVersionTemplate(`{{printf "transferowner version %s\n" .Version}}`)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(c.ErrOrStderr(), err)
		fmt.Fprintln(c.OutOrStdout(), usageLine)
		return &UsageError{Err: err}
	})

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&opts.credentials, "credentials", "", "Path to the OAuth client-secret JSON file. Can also use TRANSFEROWNER_CREDENTIALS env var. Default: credentials.json next to the executable")
	cmd.Flags().StringVar(&opts.token, "token", "", "Path to the OAuth token cache. Can also use TRANSFEROWNER_TOKEN env var. Default: token.json next to the executable")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error. Can also use TRANSFEROWNER_LOG_LEVEL env var. Default: info")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json. Can also use TRANSFEROWNER_LOG_FORMAT env var. Default: text")
	cmd.Flags().StringVar(&opts.driveEndpoint, "drive-endpoint", "", "Override the Google Drive API base URL")

	return cmd
}

// exactTwoArgs prints the usage line to stdout when the argument count is
// not two. Nothing else runs in that case.
func exactTwoArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return &UsageError{Err: fmt.Errorf("expected 2 arguments, got %d", len(args))}
	}
	return nil
}
