package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(tok) != EncodedLength(DefaultLength) {
		t.Errorf("len = %d, want %d", len(tok), EncodedLength(DefaultLength))
	}
	if _, err := base64.RawURLEncoding.DecodeString(tok); err != nil {
		t.Errorf("token is not raw url base64: %v", err)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d iterations", i)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerateWithLength(t *testing.T) {
	tests := []struct {
		length  int
		want    int
		wantErr bool
	}{
		{16, 22, false},
		{32, 43, false},
		{64, 86, false},
		{0, 0, true},
		{-1, 0, true},
	}

	for _, tt := range tests {
		tok, err := GenerateWithLength(tt.length)
		if tt.wantErr {
			if err != ErrInvalidLength {
				t.Errorf("GenerateWithLength(%d) error = %v, want ErrInvalidLength", tt.length, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("GenerateWithLength(%d) error = %v", tt.length, err)
		}
		if len(tok) != tt.want {
			t.Errorf("GenerateWithLength(%d) len = %d, want %d", tt.length, len(tok), tt.want)
		}
	}
}

func TestGeneratePrefixed(t *testing.T) {
	tok, err := GeneratePrefixed("cmtk_", 32)
	if err != nil {
		t.Fatalf("GeneratePrefixed() error = %v", err)
	}
	if !strings.HasPrefix(tok, "cmtk_") {
		t.Errorf("token %q missing prefix", tok)
	}
	if len(tok) != 5+43 {
		t.Errorf("len = %d, want 48", len(tok))
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate()
	}
}
