package main

import (
	"os"

	"github.com/Mariolucas03/Kairos/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
