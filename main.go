package main

import "github.com/koremap/koremap/cmd"

func main() {
	cmd.Execute()
}
