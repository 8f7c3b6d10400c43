package validation

import "testing"

func TestNormalizeCountryCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{"uppercase", "JP", "JP", false},
		{"lowercase normalized", "jp", "JP", false},
		{"mixed case", "Us", "US", false},
		{"empty", "", "", true},
		{"one letter", "J", "", true},
		{"three letters", "JPN", "", true},
		{"digits", "12", "", true},
		{"with hyphen", "J-", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCountryCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeCountryCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeCountryCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestNormalizeStateCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{"numeric subdivision", "JP-13", "JP-13", false},
		{"alpha subdivision", "US-CA", "US-CA", false},
		{"lowercase normalized", "us-ca", "US-CA", false},
		{"single char subdivision", "FR-A", "FR-A", false},
		{"three char subdivision", "GB-ABC", "GB-ABC", false},
		{"empty", "", "", true},
		{"missing hyphen", "JP13", "", true},
		{"missing subdivision", "JP-", "", true},
		{"subdivision too long", "JP-1234", "", true},
		{"one letter prefix", "J-13", "", true},
		{"digit prefix", "12-34", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeStateCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeStateCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeStateCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestValidateCityCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"minato-ku", "131016", false},
		{"tsurumi-ku", "141003", false},
		{"all zeros", "000000", false},
		{"empty", "", true},
		{"five digits", "13101", true},
		{"seven digits", "1310166", true},
		{"letters", "13101a", true},
		{"with hyphen", "131-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCityCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCityCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}
