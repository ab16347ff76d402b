package main

import "github.com/spotarb/spot-arb/cmd"

func main() {
	cmd.Execute()
}
