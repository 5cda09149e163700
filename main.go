package main

import "github.com/billed-app/bill-service/cmd"

func main() {
	cmd.Execute()
}
