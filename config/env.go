package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment when one exists.
// Variables already set win over the file.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: .env not loaded: %v", err)
		}
		return
	}
	log.Println("config: .env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
