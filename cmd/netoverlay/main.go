package main

import "github.com/harnesslab/netoverlay/cmd/netoverlay/cmd"

func main() {
	cmd.Execute()
}
