package youtube_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lotoqueue/internal/youtube"
)

func TestCoercePrivacy(t *testing.T) {
	tests := map[string]string{
		"public":   "public",
		" Private": "private",
		"UNLISTED": "unlisted",
		"secret":   "unlisted",
		"":         "unlisted",
	}
	for in, want := range tests {
		if got := youtube.CoercePrivacy(in); got != want {
			t.Fatalf("CoercePrivacy(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTags(t *testing.T) {
	got := youtube.ParseTags("loterias; resultado , ,mega-sena")
	if diff := cmp.Diff([]string{"loterias", "resultado", "mega-sena"}, got); diff != "" {
		t.Fatalf("ParseTags mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizedDefaults(t *testing.T) {
	got := youtube.Metadata{Title: "  Quina  ", Tags: []string{" a ", ""}}.Sanitized()
	want := youtube.Metadata{Title: "Quina", Tags: []string{"a"}, CategoryID: "17", PrivacyStatus: "unlisted"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Sanitized mismatch (-want +got):\n%s", diff)
	}
}
