package main

import "github.com/Arcterus/iron/cmd"

func main() {
	cmd.Execute()
}
