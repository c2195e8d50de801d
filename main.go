package main

import (
	"github.com/foundriesio/impctl/cmd"
)

func main() {
	cmd.Execute()
}
