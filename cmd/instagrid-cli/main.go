package main

import "github.com/nfrund/instagrid/cmd/instagrid-cli/cmd"

func main() {
	cmd.Execute()
}
