// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	Name      string
	Directory string
)

func init() {
	path, err := os.Executable()
	if err != nil || path == "" {
		Name = "traceview"
		return
	}

	_, Name = filepath.Split(path)
	Name = strings.TrimSuffix(Name, ".exe")

	if strings.HasSuffix(Name, ".test") {
		Name = "test"
	}

	Directory = filepath.Dir(path)
}
