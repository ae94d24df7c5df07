package main

import (
	"os"

	"github.com/armadaproject/fastinsert/cmd/fastinsert/cmd"
	"github.com/armadaproject/fastinsert/internal/common"
)

func main() {
	common.ConfigureCommandLineLogging()
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
