package main

import "github.com/diogo/dualchat/internal/commands"

func main() {
	commands.Execute()
}
