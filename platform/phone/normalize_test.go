package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"  not a number  ": "not a number",
		"+31 6 12345678":   "+31612345678",
	}

	for in, want := range cases {
		if got := NormalizeE164(in); got != want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", in, got, want)
		}
	}
}
