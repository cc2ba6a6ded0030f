// Package main is the entry point for the code-collab API server.
//
// @title          APU Code Collab API
// @version        1.0
// @description    Developer portfolio backend for APU students — auth, GitHub linking, and technology catalogs.
// @host           localhost:8000
// @BasePath       /
// @schemes        http
package main

func main() {
	Execute()
}
