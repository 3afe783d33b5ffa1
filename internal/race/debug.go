package race

import (
	"log"
	"os"
)

// debugEnabled gates verbose race logging via DEEPTHINK_DEBUG.
var debugEnabled = os.Getenv("DEEPTHINK_DEBUG") != ""

// debugLog writes a message only when debug logging is enabled.
func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
