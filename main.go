package main

import "georecon/cmd"

func main() {
	cmd.Execute()
}
