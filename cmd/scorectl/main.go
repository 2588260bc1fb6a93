package main

import "github.com/mcoot/scoreboard/internal/cli"

func main() {
	cli.Execute()
}
