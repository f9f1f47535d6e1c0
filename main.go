package main

import "github.com/openroll/songpipe/cmd"

func main() {
	cmd.Execute()
}
