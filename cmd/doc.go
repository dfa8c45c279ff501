// Package cmd implements the command-line interface for transferowner.
//
// The root command takes exactly two arguments, a Drive file ID and the email
// address of the prospective owner:
//
//	transferowner [flags] <fileId> <newOwnerEmail>
//
// On the first run the operator is asked to open an authorization URL and
// paste the resulting code; the token is cached for later runs. Any failure
// ends the process with exit code 1.
package cmd
