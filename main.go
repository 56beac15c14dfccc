package main

import "github.com/harness/ng-tooltip/cmd"

func main() {
	cmd.Execute()
}
