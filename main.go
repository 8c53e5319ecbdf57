package main

import (
	"DriftFM/cmd"
)

func main() {
	cmd.Execute()
}
