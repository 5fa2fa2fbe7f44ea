package main

import "github.com/csquare-club/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
