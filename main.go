package main

import "github.com/agentic-research/infracfg/cmd"

func main() {
	cmd.Execute()
}
