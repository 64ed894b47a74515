package main

import "github.com/able2/able2-cli/cmd"

func main() {
	cmd.Execute()
}
