package main

import (
	"github.com/envrun/envrun/internal/command"
)

func main() {
	command.Execute()
}
