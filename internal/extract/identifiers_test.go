package extract

import "testing"

func TestFindIdentifiers_AllPrefixes(t *testing.T) {
	text := "Compared against K123456, DEN200001 and p950042 devices."

	mentions := FindIdentifiers(text)
	if len(mentions) != 3 {
		t.Fatalf("Expected 3 mentions, got %d", len(mentions))
	}

	want := []string{"K123456", "DEN200001", "P950042"}
	for i, w := range want {
		if mentions[i].Identifier != w {
			t.Errorf("Expected identifier %s at position %d, got %s", w, i, mentions[i].Identifier)
		}
	}
}

func TestFindIdentifiers_Offsets(t *testing.T) {
	text := "See K100001 for details."

	mentions := FindIdentifiers(text)
	if len(mentions) != 1 {
		t.Fatalf("Expected 1 mention, got %d", len(mentions))
	}

	if mentions[0].Offset != 4 {
		t.Errorf("Expected offset 4, got %d", mentions[0].Offset)
	}
}

func TestFindIdentifiers_RejectsWrongDigitCounts(t *testing.T) {
	// K12345 (5 digits) and K1234567 (7 digits) do not fit the grammar.
	for _, text := range []string{
		"no match in K12345 here",
		"none in P12 either",
		"DEN12 is not valid",
	} {
		if got := FindIdentifiers(text); len(got) != 0 {
			t.Errorf("Expected no mentions in %q, got %v", text, got)
		}
	}

	// A 7-digit token contains no word-bounded 6-digit identifier.
	if got := FindIdentifiers("K1234567"); len(got) != 0 {
		t.Errorf("Expected no mentions in overlong token, got %v", got)
	}
}

func TestFindIdentifiers_CaseNormalization(t *testing.T) {
	mentions := FindIdentifiers("cited k123456 and den200001")
	if len(mentions) != 2 {
		t.Fatalf("Expected 2 mentions, got %d", len(mentions))
	}
	if mentions[0].Identifier != "K123456" {
		t.Errorf("Expected normalized K123456, got %s", mentions[0].Identifier)
	}
	if mentions[1].Identifier != "DEN200001" {
		t.Errorf("Expected normalized DEN200001, got %s", mentions[1].Identifier)
	}
}

func TestFindIdentifiers_EmptyText(t *testing.T) {
	if got := FindIdentifiers(""); got != nil {
		t.Errorf("Expected nil for empty text, got %v", got)
	}
}

func TestValidIdentifier(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"K123456", true},
		{"DEN200001", true},
		{"P950042", true},
		{"k123456", true},
		{"K12345", false},
		{"K1234567", false},
		{"X123456", false},
		{"K123456 extra", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := ValidIdentifier(tc.id); got != tc.want {
			t.Errorf("ValidIdentifier(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
