package main

import "github.com/curvetools/curveconv/cmd"

func main() {
	cmd.Execute()
}
