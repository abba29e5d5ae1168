// Command advisorchat is a terminal chat client for the college advisor backend.
package main

import "github.com/diogo/advisorchat/internal/commands"

func main() {
	commands.Execute()
}
