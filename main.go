package main

import "github.com/itsmostafa/tanaline/cmd"

func main() {
	cmd.Execute()
}
