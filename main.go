package main

import "github.com/SShoshia/book-giveaway/cmd"

func main() {
	cmd.Execute()
}
