package main

import "github.com/chriserin/ftfmt/cmd"

func main() {
	cmd.Execute()
}
