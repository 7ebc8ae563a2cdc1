package main

import "github.com/0-ROK/little-prince-llm/cmd"

func main() {
	cmd.Execute()
}
