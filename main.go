package main

import "signal-metrics/internal/cli"

func main() {
	cli.Execute()
}
