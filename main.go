package main

import "github.com/dsrkit/auditlint/cmd"

func main() {
	cmd.Execute()
}
