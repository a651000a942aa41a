package movie

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Gladiator", "gladiator"},
		{"surrounding space", "  Gladiator \n", "gladiator"},
		{"inner space collapsed", "The  English Patient", "the english patient"},
		{"mixed case", "AMERICAN Beauty", "american beauty"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.title); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestKey_TitleCollision(t *testing.T) {
	// Two different productions released as "Little Women" share one key.
	if Key("Little Women") != Key("little women ") {
		t.Error("expected titles differing only in case and spacing to collide")
	}
}

func TestBestPictureRecord_HasDetailPath(t *testing.T) {
	if (BestPictureRecord{DetailPath: " "}).HasDetailPath() {
		t.Error("blank detail path should not count")
	}
	if !(BestPictureRecord{DetailPath: "/movies/?id=gladiator.htm"}).HasDetailPath() {
		t.Error("detail path should count")
	}
}
