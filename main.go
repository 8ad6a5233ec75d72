package main

import "github.com/liamg/portscout/cmd"

func main() {
	cmd.Execute()
}
