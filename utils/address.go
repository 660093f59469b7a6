package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// NormalizeListenAddress turns a bare port ("12000") into ":12000" and
// leaves host:port values untouched.
func NormalizeListenAddress(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}

	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}

	return fmt.Sprintf(":%d", port), nil
}

// DialableAddress returns a host:port a client can connect to, filling in
// localhost when the host part is empty.
func DialableAddress(addr string) (string, error) {
	addr, err := NormalizeListenAddress(addr)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	return addr, nil
}

// IsPortAvailable reports whether addr can be bound right now.
func IsPortAvailable(addr string) bool {
	Verbose("Checking if %s is available", addr)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}
