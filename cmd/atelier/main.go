package main

import "atelier/cmd/atelier/cmd"

func main() {
	cmd.Execute()
}
