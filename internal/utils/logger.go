package utils

import (
	"log"
	"strings"
)

// LogEvent prints one tagged line per domain event, keyed by module,
// action and request id. Messages carry identifiers only, never payloads
// or credentials.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
