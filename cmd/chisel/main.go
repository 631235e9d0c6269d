package main

import "github.com/deepnoodle-ai/chisel/cmd/chisel/cli"

func main() {
	cli.Execute()
}
