package server

import (
	"encoding/json"
	"fmt"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// methodShutdown is handled by the server itself rather than the registry
const methodShutdown = "server.shutdown"

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP and WebSocket transports and embedded clients
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"devices":          handleDevicesList,
		"device_info":      handleDeviceInfo,
		"display_modes":    handleDisplayModes,
		"requestFrameRate": handleRequestFrameRate,
	}
}

// ErrNotImplemented is returned by Execute for methods missing from the registry
type ErrNotImplemented struct {
	Method string
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("method '%s' is not implemented", e.Method)
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(method string, params json.RawMessage) (interface{}, error) {
	handler, exists := GetMethodRegistry()[method]
	if !exists {
		return nil, ErrNotImplemented{Method: method}
	}

	return handler(params)
}
