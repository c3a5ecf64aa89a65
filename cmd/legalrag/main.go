package main

import "legalrag/internal/cli"

func main() {
	cli.Execute()
}
