package main

import "github.com/aaearon/tabrotate/cmd"

func main() {
	cmd.Execute()
}
