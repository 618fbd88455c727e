package main

import (
	"os"

	"dawnlang/dawn/cmd/dawn/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:]))
}
