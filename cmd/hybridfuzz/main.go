package main

import (
	"os"

	"github.com/zjy-dev/hybrid-fuzz/cmd/hybridfuzz/app"
)

func main() {
	if err := app.NewHybridFuzzCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
