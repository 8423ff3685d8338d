package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/hpckit/balsamctl/apps/balsamctl/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "balsamctl crashed: %v\n", r)
			if os.Getenv("BALSAMCTL_DEBUG") != "" {
				debug.PrintStack()
			}
			os.Exit(2)
		}
	}()

	cmd.Execute()
}
