package main

import "salesboard/internal/cli"

func main() {
	cli.Execute()
}
