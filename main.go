package main

import "inventory-guard/cmd"

func main() {
	cmd.Execute()
}
