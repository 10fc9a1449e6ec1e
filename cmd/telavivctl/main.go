package main

import "github.com/telaviv/ops-dashboard/internal/cli"

func main() {
	cli.Execute()
}
