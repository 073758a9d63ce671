package main

import "github.com/fakeyudi/studio/cmd"

func main() {
	cmd.Execute()
}
