package main

import "github.com/officialryder1/couplequest-backend/cmd"

func main() {
	cmd.Run()
}
