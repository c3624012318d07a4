package main

import (
	"fmt"
	"os"

	modpilot "github.com/modpilot/modpilot/cmd/modpilot"
	"github.com/modpilot/modpilot/pkg/display"
)

func main() {
	rootCmd := modpilot.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := display.NewTerminalRenderer(display.DetectFormat(os.Stderr))
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
