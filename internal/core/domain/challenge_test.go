package domain

import (
	"strconv"
	"testing"
)

func TestGenerateOTPCode_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code is not numeric: %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}
