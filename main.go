package main

import (
	"os"

	"github.com/ysalloum/pulsedesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
