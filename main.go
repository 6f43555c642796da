package main

import (
	"github.com/joho/godotenv"

	"skotani/hyakumap/commands"
	"skotani/hyakumap/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	commands.Execute()
}
