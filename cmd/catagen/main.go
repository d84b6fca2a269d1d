package main

import "github.com/foodworks-dev/catagen/internal/cli"

func main() {
	cli.Execute()
}
