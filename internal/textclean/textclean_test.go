package textclean

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "bonjour   tout  le\tmonde", "bonjour tout le monde"},
		{"trims ends", "  salut  ", "salut"},
		{"space before period", "mot .", "mot."},
		{"space before comma", "oui , merci", "oui, merci"},
		{"space before question", "pourquoi ?", "pourquoi?"},
		{"space before exclamation", "attention !", "attention!"},
		{"newlines and tabs", "une\nphrase\t\tcoupée", "une phrase coupée"},
		{"accents untouched", "Éléphant à l'école", "Éléphant à l'école"},
		{"case untouched", "PARIS est Grand", "PARIS est Grand"},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
		{"combined", "  c'est   bon .  Vraiment  !  ", "c'est bon. Vraiment!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"bonjour   tout  le monde .",
		"  des  espaces , partout !  ",
		"déjà propre.",
		"",
		"un . deux , trois ? quatre !",
		"multi\n\nlignes  avec\ttabulations .",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
