package normalize

import "testing"

func TestText_CollapsesWhitespaceAndFoldsCase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The Fund Rebalances Quarterly", "the fund rebalances quarterly"},
		{"runs and newlines", "The Fund\n\tRebalances   Quarterly.", "the fund rebalances quarterly."},
		{"nbsp", "a\u00a0\u00a0b", "a b"},
		{"leading trailing", "   padded   ", "padded"},
		{"empty", "", ""},
		{"pure whitespace", " \n\t   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Mixed   Case\nAnd\tRuns",
		"already normalized text",
	}
	for _, in := range inputs {
		once := Text(in)
		if twice := Text(once); twice != once {
			t.Fatalf("Text not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestStripPageTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"the fund rebalances quarterly (page 4)", "the fund rebalances quarterly"},
		{"the fund rebalances quarterly p. 12", "the fund rebalances quarterly"},
		{"the fund rebalances quarterly (PAGE 2)", "the fund rebalances quarterly"},
		{"no marker here", "no marker here"},
		{"page 3 appears mid-sentence and stays", "page 3 appears mid-sentence and stays"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripPageTag(tc.in); got != tc.want {
			t.Fatalf("StripPageTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
