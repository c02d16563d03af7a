package main

import "github.com/rjoshi/kitegate/cmd/kitegate/cmd"

func main() {
	cmd.Execute()
}
