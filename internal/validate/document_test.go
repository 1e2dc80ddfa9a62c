package validate

import (
	"testing"
)

// TestValidCPF tests CPF check-digit validation
func TestValidCPF(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        bool
		description string
	}{
		{
			name:        "valid raw digits",
			input:       "52998224725",
			want:        true,
			description: "known-valid CPF should pass",
		},
		{
			name:        "valid formatted",
			input:       "529.982.247-25",
			want:        true,
			description: "display formatting should be stripped before validation",
		},
		{
			name:        "wrong check digit",
			input:       "52998224726",
			want:        false,
			description: "last check digit off by one should fail",
		},
		{
			name:        "repeated digits",
			input:       "11111111111",
			want:        false,
			description: "repeated digit sequences are explicitly invalid",
		},
		{
			name:        "too short",
			input:       "1234567890",
			want:        false,
			description: "10 digits is not a CPF",
		},
		{
			name:        "empty",
			input:       "",
			want:        false,
			description: "empty input should fail",
		},
		{
			name:        "letters only",
			input:       "abc.def.ghi-jk",
			want:        false,
			description: "non-numeric input cleans to empty and fails",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCPF(tt.input); got != tt.want {
				t.Errorf("ValidCPF(%q) = %v, want %v (%s)", tt.input, got, tt.want, tt.description)
			}
		})
	}
}

// TestCleanCPF tests non-digit stripping
func TestCleanCPF(t *testing.T) {
	if got := CleanCPF("529.982.247-25"); got != "52998224725" {
		t.Errorf("CleanCPF() = %q, want %q", got, "52998224725")
	}
	if got := CleanCPF(""); got != "" {
		t.Errorf("CleanCPF(\"\") = %q, want empty", got)
	}
}

// TestFormatCPF tests display formatting
func TestFormatCPF(t *testing.T) {
	if got := FormatCPF("52998224725"); got != "529.982.247-25" {
		t.Errorf("FormatCPF() = %q, want %q", got, "529.982.247-25")
	}
	// Invalid lengths pass through unchanged
	if got := FormatCPF("12345"); got != "12345" {
		t.Errorf("FormatCPF(\"12345\") = %q, want unchanged", got)
	}
}

// TestFormatPhone tests mobile and landline formatting
func TestFormatPhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"11999998888", "(11) 99999-8888"},
		{"1133334444", "(11) 3333-4444"},
		{"123", "123"}, // unknown length passes through
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.input); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestFormatCEP tests postal code formatting
func TestFormatCEP(t *testing.T) {
	if got := FormatCEP("01310100"); got != "01310-100" {
		t.Errorf("FormatCEP() = %q, want %q", got, "01310-100")
	}
	if got := FormatCEP("999"); got != "999" {
		t.Errorf("FormatCEP(\"999\") = %q, want unchanged", got)
	}
}

// TestFormatBRL tests Brazilian currency formatting with thousands separators
func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{1234.56, "R$ 1.234,56"},
		{0, "R$ 0,00"},
		{999.9, "R$ 999,90"},
		{1234567.89, "R$ 1.234.567,89"},
		{-50.25, "-R$ 50,25"},
	}

	for _, tt := range tests {
		if got := FormatBRL(tt.input); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestLoginFormat tests login identifier rules
func TestLoginFormat(t *testing.T) {
	valid := []string{"admin", "joao.silva", "user_1", "ana-souza"}
	for _, login := range valid {
		if err := LoginFormat(login); err != nil {
			t.Errorf("LoginFormat(%q) = %v, want nil", login, err)
		}
	}

	invalid := []string{"", "ab", "Admin", "user name", ".admin", "admin.", "josé"}
	for _, login := range invalid {
		if err := LoginFormat(login); err == nil {
			t.Errorf("LoginFormat(%q) = nil, want error", login)
		}
	}
}

// TestParseBindAddress tests host:port parsing and validation
func TestParseBindAddress(t *testing.T) {
	addr, err := ParseBindAddress("127.0.0.1:8501")
	if err != nil {
		t.Fatalf("ParseBindAddress() error = %v", err)
	}
	if addr.Host != "127.0.0.1" || addr.Port != 8501 {
		t.Errorf("ParseBindAddress() = %+v, want host 127.0.0.1 port 8501", addr)
	}

	for _, bad := range []string{"127.0.0.1", "notanip:80", "127.0.0.1:notaport", "127.0.0.1:99999"} {
		if _, err := ParseBindAddress(bad); err == nil {
			t.Errorf("ParseBindAddress(%q) = nil error, want error", bad)
		}
	}
}
