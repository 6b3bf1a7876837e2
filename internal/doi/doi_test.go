package doi

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare DOI unchanged",
			input: "10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "https resolver prefix",
			input: "https://doi.org/10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "http resolver prefix",
			input: "http://doi.org/10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "legacy dx mirror https",
			input: "https://dx.doi.org/10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "legacy dx mirror http",
			input: "http://dx.doi.org/10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "scheme-style prefix",
			input: "doi:10.1000/xyz123",
			want:  "10.1000/xyz123",
		},
		{
			name:  "surrounding whitespace",
			input: "  10.1000/xyz123\n",
			want:  "10.1000/xyz123",
		},
		{
			name:  "whitespace around prefixed form",
			input: " https://doi.org/10.1000/xyz123 ",
			want:  "10.1000/xyz123",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
		{
			name:  "suffix case preserved",
			input: "https://doi.org/10.1000/XYZ123",
			want:  "10.1000/XYZ123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://doi.org/10.1/X",
		"http://dx.doi.org/10.1/X",
		"doi:10.1/X",
		"10.1/X",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeProtocolAgnostic(t *testing.T) {
	a := Normalize("https://doi.org/10.1/X")
	b := Normalize("http://dx.doi.org/10.1/X")
	c := Normalize("10.1/X")
	if a != b || b != c {
		t.Errorf("equivalent forms normalize differently: %q, %q, %q", a, b, c)
	}
}

func TestURLForms(t *testing.T) {
	if got := URL("10.1/X"); got != "https://doi.org/10.1/X" {
		t.Errorf("URL = %q", got)
	}
	if got := LegacyURL("10.1/X"); got != "http://dx.doi.org/10.1/X" {
		t.Errorf("LegacyURL = %q", got)
	}
	if URL("") != "" || LegacyURL("") != "" {
		t.Error("URL forms of empty DOI should be empty")
	}
}
