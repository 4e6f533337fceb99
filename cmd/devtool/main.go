package main

import (
	"os"

	"routeplug/cmd/devtool/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
