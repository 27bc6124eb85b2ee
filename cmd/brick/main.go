package main

import "github.com/brickyard-pm/brickyard/cmd/brick/internal"

func main() {
	internal.Execute()
}
