package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"us national", "(303) 555-0147", "+13035550147"},
		{"us with country code", "+1 303 555 0147", "+13035550147"},
		{"already e164", "+13035550147", "+13035550147"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage returns trimmed input", " not-a-number ", "not-a-number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
