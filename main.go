package main

import "github.com/greenee/ecarbon/cmd"

func main() {
	cmd.Execute()
}
