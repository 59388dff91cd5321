// Command abiverify is a convenience CLI wrapping the abiverify library
// (spec.md §1's "CLI glue, driver scaffolding" is explicitly out of the
// core's scope; this is the external collaborator that scope excludes).
// Grounded on cmd/wazero/wazero.go's doMain(stdout, stderr, exit) shape and
// roach88-nysm/brutalist/internal/cli's cobra command wiring and exit-code
// convention.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewRootCommand()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeOf(err))
	}
}
