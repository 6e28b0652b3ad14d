package validation

import (
	"testing"
)

func TestValidateWallet(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mainnet address", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", false},
		{"valid system program", "11111111111111111111111111111111", false},
		{"too short", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA", true},
		{"too long", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU7xKXtg2CW87", true},
		{"contains zero", "0xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", true},
		{"contains uppercase O", "OxKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", true},
		{"contains lowercase l", "lxKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", true},
		{"hex address", "0x1234567890abcdef1234567890abcdef12345678", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWallet(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWallet(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSignature(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid signature", "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW", false},
		{"too short", "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnb", true},
		{"invalid characters", "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQU!", true},
		{"wallet length", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignature(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSignature(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
