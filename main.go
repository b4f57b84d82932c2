package main

import "github.com/pyvoip/configure/cmd"

func main() {
	cmd.Execute()
}
