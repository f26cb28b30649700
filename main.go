package main

import "github.com/hxwen/tomato/cmd"

func main() {
	cmd.Execute()
}
