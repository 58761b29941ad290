package instance

import "os"

// GetID returns the identifier of this api instance, taken from the
// INSTANCE_ID environment variable when the process manager sets one.
func GetID() string {
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	return "api-0"
}
