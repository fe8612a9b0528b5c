package config

import "github.com/joho/godotenv"

// loadEnvFiles loads KEY=VALUE pairs from the given files if they exist.
// Existing environment variables win; missing files are skipped.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}
