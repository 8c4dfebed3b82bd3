package utils

import (
	"log"
	"strings"
)

// LogEvent records one application event, tagged with the owning module and
// the request that triggered it. Keep the message short; never log documents
// or customer data.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] request_id=%s action=%s %s", strings.ToUpper(module), req, action, message)
}
