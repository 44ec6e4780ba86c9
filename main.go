package main

import "github.com/theirongolddev/edupulse/cmd"

func main() {
	cmd.Execute()
}
