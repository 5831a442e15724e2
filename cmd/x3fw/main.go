package main

import "github.com/woozymasta/x3fw/cmd/x3fw/cmd"

func main() {
	cmd.Execute()
}
