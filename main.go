package main

import "github.com/dotcommander/innerscope/cmd"

func main() {
	cmd.Execute()
}
