package main

import "github.com/planloop/planloop/cmd"

func main() {
	cmd.Execute()
}
