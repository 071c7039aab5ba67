// Command hill encrypts and decrypts files with the Hill cipher.
package main

import (
	"os"

	"github.com/idelchi/hill/internal/commands"
	"github.com/idelchi/hill/internal/config"
)

// version is set at build time.
var version = "unknown"

func main() {
	cfg := &config.Config{}

	root := commands.NewRootCommand(cfg, version)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
