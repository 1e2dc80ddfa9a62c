package validate

import (
	"fmt"
	"strings"
)

// CleanCPF strips every non-digit character from a CPF string, accepting
// any of the display formats operators paste in (000.000.000-00, spaces,
// raw digits).
func CleanCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether a CPF is structurally valid: 11 digits, not a
// repeated digit sequence, and both check digits correct per the Receita
// Federal algorithm.
func ValidCPF(cpf string) bool {
	digits := CleanCPF(cpf)
	if len(digits) != 11 {
		return false
	}

	// CPFs with all digits equal pass the check-digit math but are invalid
	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	// First check digit
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	d1 := (sum * 10) % 11
	if d1 == 10 {
		d1 = 0
	}

	// Second check digit
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	d2 := (sum * 10) % 11
	if d2 == 10 {
		d2 = 0
	}

	return int(digits[9]-'0') == d1 && int(digits[10]-'0') == d2
}

// FormatCPF formats a CPF in the 000.000.000-00 display pattern.
// Inputs that don't clean to 11 digits are returned unchanged.
func FormatCPF(cpf string) string {
	digits := CleanCPF(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[:3], digits[3:6], digits[6:9], digits[9:])
}

// FormatPhone formats Brazilian phone numbers as (11) 99999-9999 for mobile
// (11 digits) or (11) 9999-9999 for landline (10 digits). Other lengths are
// returned unchanged.
func FormatPhone(phone string) string {
	digits := CleanCPF(phone)
	switch len(digits) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:7], digits[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:2], digits[2:6], digits[6:])
	}
	return phone
}

// FormatCEP formats a postal code as 00000-000. Inputs that don't clean to
// 8 digits are returned unchanged.
func FormatCEP(cep string) string {
	digits := CleanCPF(cep)
	if len(digits) != 8 {
		return cep
	}
	return digits[:5] + "-" + digits[5:]
}

// FormatBRL formats a value as Brazilian currency: R$ 1.234,56.
func FormatBRL(value float64) string {
	neg := value < 0
	if neg {
		value = -value
	}

	s := fmt.Sprintf("%.2f", value)
	intPart := s[:len(s)-3]
	fracPart := s[len(s)-2:]

	// Thousands separators, right to left
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
