package main

import "pjstats/cmd"

func main() {
	cmd.Execute()
}
