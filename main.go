package main

import "github.com/sadopc/workhours/internal/cli"

func main() {
	cli.Execute()
}
