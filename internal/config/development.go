package config

import "os"

// Development is on when DEVELOPMENT is set to anything but "0".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "0"
}
