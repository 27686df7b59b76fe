package main

import "github.com/frahmantamala/mibu/cmd"

func main() {
	cmd.Execute()
}
