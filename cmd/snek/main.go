package main

import (
	"fmt"
	"os"

	"github.com/RedstoneDaedalus/snekfetch/app"
)

func main() {
	if err := app.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(app.ExitCode(err))
	}
}
