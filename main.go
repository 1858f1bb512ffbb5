package main

import "github.com/vendaflow/ms-go-billing/cmd"

func main() {
	cmd.Execute()
}
