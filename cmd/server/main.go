package main

import "engage/internal/app/server"

func main() {
	server.Run()
}
