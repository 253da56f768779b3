package main

import "github.com/killallgit/conduit/cmd"

func main() {
	cmd.Execute()
}
