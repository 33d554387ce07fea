// Package cli reports command failures and watches for termination requests.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ExitFailure is the status a failed command exits with.
const ExitFailure = 1

// Reporter prints command failures and decides the exit status.
type Reporter struct {
	Output io.Writer
	Exit   func(code int)
}

// Default writes to standard error and terminates the process.
var Default = &Reporter{Output: color.Error, Exit: os.Exit}

var errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()

// Error prints err with an "Error:" label.
func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.Output, errorLabel("Error:"), err)
}

// Fatal prints err and exits with ExitFailure.
func (r *Reporter) Fatal(err error) {
	r.Error(err)
	r.Exit(ExitFailure)
}

// Run turns an entry point that returns its failure into a cobra Run func.
// The entry point's deferred cleanup runs before the process exits.
func (r *Reporter) Run(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			r.Fatal(err)
		}
	}
}
