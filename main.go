package main

import "github.com/mj1618/focusnav/cmd"

func main() {
	cmd.Execute()
}
