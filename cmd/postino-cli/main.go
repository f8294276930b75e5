package main

import "postino/cmd/postino-cli/cmd"

func main() {
	cmd.Execute()
}
