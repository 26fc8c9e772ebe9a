package main

import "github.com/banter-app/banter-cli/internal/cmd"

func main() {
	cmd.Execute()
}
