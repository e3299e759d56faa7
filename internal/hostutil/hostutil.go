// Package hostutil holds small OS-interaction helpers: whether stdout is a
// terminal, and the GUI/CLI launch-origin dance from internal/util that the
// CLI entrypoint uses to decide whether to hide its console window.
package hostutil

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to an interactive terminal,
// grounded on golang.org/x/term's IsTerminal helper (SPEC_FULL.md §3).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
