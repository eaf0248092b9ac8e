package main

import "github.com/jask/nncalc/internal/cli"

func main() {
	cli.Execute()
}
