package domain

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		input string
		want  Status
	}{
		{"ready", StatusReady},
		{" Ready ", StatusReady},
		{"CURRENT", StatusCurrent},
		{"", StatusUntracked},
		{"bogus", StatusUntracked},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.input); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusLocked.UploadBlocked() || !StatusDuplicate.UploadBlocked() {
		t.Fatal("expected locked and duplicate to block uploads")
	}
	if StatusEdited.UploadBlocked() {
		t.Fatal("expected edited source to allow uploads")
	}

	for _, status := range []Status{StatusReady, StatusCurrent} {
		if !status.Downloadable() {
			t.Fatalf("expected %s to be downloadable", status)
		}
	}
	for _, status := range []Status{StatusPending, StatusIntermediate} {
		if status.Downloadable() {
			t.Fatalf("expected %s target to refuse downloads", status)
		}
	}
}
