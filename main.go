package main

import "github.com/damon-houk/cbr-currency-exporter/internal/cli"

func main() {
	cli.NewRootCommand().Execute()
}
