package main

import "github.com/NicholasPaulCarl/zarbitrage-adminauth/cmd/adminauth/cmd"

func main() {
	cmd.Execute()
}
