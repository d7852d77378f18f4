package repository

import (
	"encoding/json"
	"testing"
)

func TestParseValorBRL(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		want    float64
		wantErr bool
	}{
		{"nil", nil, 0, false},
		{"float", 1234.56, 1234.56, false},
		{"int", 1500, 1500, false},
		{"json number", json.Number("987.65"), 987.65, false},
		{"plain string", "1234.56", 1234.56, false},
		{"localized", "1.234,56", 1234.56, false},
		{"currency prefix", "R$ 1.234,56", 1234.56, false},
		{"currency no space", "R$250,00", 250, false},
		{"comma only", "99,90", 99.90, false},
		{"empty string", "", 0, false},
		{"garbage", "abc", 0, true},
		{"bool", true, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseValorBRL(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPageTokenRoundTrip(t *testing.T) {
	lek := key("TENANT#t1", "CLIENT#c1")
	token, err := encodePageToken(lek)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	decoded, err := decodePageToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pk, _ := stringAttr(decoded, "PK")
	sk, _ := stringAttr(decoded, "SK")
	if pk != "TENANT#t1" || sk != "CLIENT#c1" {
		t.Errorf("round trip lost the key: got %q/%q", pk, sk)
	}
}

func TestPageTokenEmpty(t *testing.T) {
	token, err := encodePageToken(nil)
	if err != nil || token != "" {
		t.Fatalf("empty LastEvaluatedKey should yield no token, got %q (%v)", token, err)
	}
	lek, err := decodePageToken("")
	if err != nil || lek != nil {
		t.Fatalf("empty token should decode to nil, got %v (%v)", lek, err)
	}
}

func TestPageTokenInvalid(t *testing.T) {
	if _, err := decodePageToken("not-base64-!!!"); err == nil {
		t.Fatal("expected an error for a malformed token")
	}
}

func TestPageLimit(t *testing.T) {
	cases := []struct {
		in   int32
		want int32
	}{
		{0, 50},
		{-3, 50},
		{25, 25},
		{200, 200},
		{201, 50},
	}
	for _, tc := range cases {
		if got := (Page{Limit: tc.in}).limit(); got != tc.want {
			t.Errorf("limit(%d): got %d, want %d", tc.in, got, tc.want)
		}
	}
}
