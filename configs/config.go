// Package config reads settings from the process environment, with a .env
// file as a development convenience.
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value of key. The first lookup loads .env if one is
// present; in deployed environments there is none and real environment
// variables win.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}
