package cityname

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Colombo 03", "  Mount Lavinia ", "colombo 3", "Colombo 003", "Rajagiriya"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSame(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Colombo 03", "Colombo 3", true},
		{"Colombo 3", "Colombo 03", true}, // symmetric
		{"colombo 03", "COLOMBO 3", true},
		{" Colombo 3", "Colombo 3 ", true},
		{"Colombo 003", "Colombo 3", true},
		{"Colombo 03", "Colombo 7", false},
		{"Colombo", "Colombo 3", false},
		{"Mount Lavinia", "Mt Lavinia", false}, // reworded labels intentionally do not match
		{"", "", true},
	}
	for _, tc := range cases {
		if got := Same(tc.a, tc.b); got != tc.want {
			t.Errorf("Same(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeKeepsSignificantDigits(t *testing.T) {
	if Normalize("Colombo 10") != "colombo 10" {
		t.Fatalf("Normalize must not strip non-leading zeros: got %q", Normalize("Colombo 10"))
	}
}
