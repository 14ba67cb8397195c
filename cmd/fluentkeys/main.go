package main

import "github.com/agentic-research/fluentkeys/cmd"

func main() {
	cmd.Execute()
}
