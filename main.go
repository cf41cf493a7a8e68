package main

import "github.com/ValentinKolb/pricerproxy/cmd"

func main() {
	cmd.Execute()
}
