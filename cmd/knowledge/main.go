package main

import "knowledge/internal/cli"

func main() {
	cli.Execute()
}
