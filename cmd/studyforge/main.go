package main

import (
	"studyforge/internal/cmd"
)

func main() {
	cmd.Execute()
}
