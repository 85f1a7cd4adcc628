package main

import "zootopia/cmd/zoo/root"

func main() {
	root.Execute()
}
