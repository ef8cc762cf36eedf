package main

import "sendiab_backend/internal/app"

func main() {
	app.Run()
}
