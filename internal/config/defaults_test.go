package config

import (
	"net"
	"testing"
)

// TestDefaultBindAddrIsValidIP validates that the default bind address is a valid IP
func TestDefaultBindAddrIsValidIP(t *testing.T) {
	ip := net.ParseIP(DefaultBindAddr)
	if ip == nil {
		t.Fatalf("DefaultBindAddr %q is not a valid IP address", DefaultBindAddr)
	}

	if ip.To4() == nil {
		t.Errorf("DefaultBindAddr %q is not a valid IPv4 address", DefaultBindAddr)
	}

	// The dashboard is a local tool; the default must stay on loopback
	if !ip.IsLoopback() {
		t.Errorf("DefaultBindAddr %q is not a loopback address", DefaultBindAddr)
	}
}

// TestDefaultBindPort validates the default port is in the valid range
func TestDefaultBindPort(t *testing.T) {
	if DefaultBindPort < 1 || DefaultBindPort > 65535 {
		t.Errorf("DefaultBindPort = %d, want 1-65535", DefaultBindPort)
	}
}

// TestDefaultLogLevel validates the default log level constant
func TestDefaultLogLevel(t *testing.T) {
	if DefaultLogLevel != "INFO" {
		t.Errorf("DefaultLogLevel = %q, want %q", DefaultLogLevel, "INFO")
	}
}

// TestDefaultBackupSettings validates backup defaults are sane
func TestDefaultBackupSettings(t *testing.T) {
	if DefaultBackupInterval <= 0 {
		t.Errorf("DefaultBackupInterval = %v, want > 0", DefaultBackupInterval)
	}
	if DefaultBackupKeep < 1 {
		t.Errorf("DefaultBackupKeep = %d, want >= 1", DefaultBackupKeep)
	}
}
