package main

import "github.com/buskinglive/backend/cmd/server"

func main() {
	srv := server.NewServer()
	defer srv.Shutdown()
	srv.Run()
}
