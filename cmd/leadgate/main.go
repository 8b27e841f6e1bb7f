package main

import "github.com/ideamans/leadgate/cmd/leadgate/cmd"

func main() {
	cmd.Execute()
}
