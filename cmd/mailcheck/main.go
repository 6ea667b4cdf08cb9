package main

import "github.com/synqronlabs/mailcheck/cmd/mailcheck/cmd"

func main() {
	cmd.Execute()
}
