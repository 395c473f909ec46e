// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

var isJournal = isStderrConnectedToJournal()

var defaultHandler = func() slog.Handler {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return newTerminalHandler(os.Stderr)
	}
	return newTextHandler(os.Stderr)
}()
