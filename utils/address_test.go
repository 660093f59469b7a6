package utils

import (
	"net"
	"testing"
)

func TestNormalizeListenAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		want    string
		wantErr bool
	}{
		{"bare port", "12000", ":12000", false},
		{"host and port", "localhost:12000", "localhost:12000", false},
		{"all interfaces", "0.0.0.0:13000", "0.0.0.0:13000", false},
		{"leading colon", ":12000", ":12000", false},
		{"garbage", "localhost", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeListenAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeListenAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeListenAddress(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestDialableAddress(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"12000", "localhost:12000"},
		{":12000", "localhost:12000"},
		{"127.0.0.1:12000", "127.0.0.1:12000"},
	}

	for _, tt := range tests {
		got, err := DialableAddress(tt.addr)
		if err != nil {
			t.Fatalf("DialableAddress(%q) unexpected error: %v", tt.addr, err)
		}
		if got != tt.want {
			t.Errorf("DialableAddress(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestIsPortAvailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer listener.Close()

	if IsPortAvailable(listener.Addr().String()) {
		t.Error("expected bound port to be unavailable")
	}
}
