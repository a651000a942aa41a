package main

import "github.com/pfrederiksen/bom-oscars/internal/cli"

func main() {
	cli.Execute()
}
