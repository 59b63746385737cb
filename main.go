package main

import "stconflict/cmd"

func main() {
	cmd.Execute()
}
