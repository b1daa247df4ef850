package main

import "payment-sync/cmd"

func main() {
	cmd.Execute()
}
