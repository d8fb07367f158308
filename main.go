package main

import "github.com/KaramelBytes/hospiviz-cli/cmd"

func main() {
	cmd.Execute()
}
