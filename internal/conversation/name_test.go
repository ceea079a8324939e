package conversation

import "testing"

func TestResolveNameExplicitIntroduction(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"me llamo Juan Pérez", "Juan Pérez"},
		{"Mi nombre es ana", "Ana"},
		{"soy Carlos", "Carlos"},
		{"my name is John Smith", "John Smith"},
		{"I'm maria", "Maria"},
	}
	for _, tc := range cases {
		got, ok := ResolveName(tc.text)
		if !ok {
			t.Errorf("ResolveName(%q) not recognized", tc.text)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveName(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestResolveNameShortMessage(t *testing.T) {
	got, ok := ResolveName("juan pérez")
	if !ok || got != "Juan Pérez" {
		t.Errorf("short message: got %q ok=%v", got, ok)
	}

	got, ok = ResolveName("ángel")
	if !ok || got != "Ángel" {
		t.Errorf("accented name: got %q ok=%v", got, ok)
	}
}

func TestResolveNameRejectsNonNames(t *testing.T) {
	for _, text := range []string{
		"",
		"hola",
		"buenas tardes",
		"gracias",
		"quiero rentar una plataforma de 12 metros",
		"ok",
		"precio",
		"12 metros",
		"hola!",
	} {
		if got, ok := ResolveName(text); ok {
			t.Errorf("ResolveName(%q) = %q, want rejection", text, got)
		}
	}
}

func TestResolveNameCapsTokens(t *testing.T) {
	got, ok := ResolveName("me llamo juan carlos de la torre")
	if !ok {
		t.Fatal("introduction not recognized")
	}
	if got != "Juan Carlos De" {
		t.Errorf("got %q, want the name capped at three tokens", got)
	}
}
