package lottery_test

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lotoqueue/internal/lottery"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Mega Sena", "mega-sena"},
		{"  MEGA   SENA ", "mega-sena"},
		{"Mega-Sena", "mega-sena"},
		{"Lotofácil", "lotofacil"},
		{"LOTOFACIL", "lotofacil"},
		{"DuplaSena", "dupla sena"},
		{"Dia de Sorte", "dia de sorte"},
		{"Quina!", "quina"},
		{"Super\tSete", "super sete"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lottery.NormalizeKey(tt.raw); got != tt.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeKeyIsIdempotentAndASCII(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9 \-]*$`)
	inputs := []string{"Mega Sena", "Lotofácil", "DUPLASENA", "Federal ✓", "Timemania 2025", "ÇÃO é", "omega  sena", "a--b"}
	for _, raw := range inputs {
		once := lottery.NormalizeKey(raw)
		if !allowed.MatchString(once) {
			t.Fatalf("NormalizeKey(%q) = %q has characters outside [a-z0-9 -]", raw, once)
		}
		if twice := lottery.NormalizeKey(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestCanonicalSlug(t *testing.T) {
	tests := map[string]string{
		"x-y-x":               "x-y",
		"a-a":                 "a",
		"mega-sena-mega-sena": "mega-sena",
		"--dia--de-sorte-":    "dia-de-sorte",
		"":                    "",
		"dia-de-sorte-1074":   "dia-de-sorte-1074",
	}
	for in, want := range tests {
		got := lottery.CanonicalSlug(in)
		if got != want {
			t.Fatalf("CanonicalSlug(%q) = %q, want %q", in, got, want)
		}
		if again := lottery.CanonicalSlug(got); again != got {
			t.Fatalf("CanonicalSlug not idempotent for %q", in)
		}
	}
}

func TestFileSlug(t *testing.T) {
	if got := lottery.FileSlug("Dia de Sorte"); got != "dia-de-sorte" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := lottery.FileSlug("Mega Sena"); got != "mega-sena" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := lottery.FileSlug("  ***  "); got != lottery.DefaultFileSlug {
		t.Fatalf("expected default slug, got %q", got)
	}
}

func TestPaletteLookup(t *testing.T) {
	palette := lottery.DefaultPalette()

	mega := palette.Lookup("Mega Sena")
	if mega.Color != "#206069" || mega.Numbers != 6 || !mega.Known() {
		t.Fatalf("unexpected mega-sena brand: %+v", mega)
	}
	if mega.Logo != "https://loterias.caixa.gov.br/Site/Imagens/loterias/megasena.png" {
		t.Fatalf("unexpected logo %q", mega.Logo)
	}
	if got := palette.Lookup("Lotofácil"); got.Color != "#DD4A91" || got.Numbers != 15 {
		t.Fatalf("unexpected lotofacil brand: %+v", got)
	}
	if got := palette.Lookup("duplasena"); got.Color != "#8B0000" {
		t.Fatalf("unexpected dupla sena brand: %+v", got)
	}

	unknown := palette.Lookup("Bingo do Bairro")
	if unknown.Known() || unknown.Logo != "" || unknown.Color != "#4B0082" || unknown.Numbers != 6 {
		t.Fatalf("unexpected fallback brand: %+v", unknown)
	}
}

func TestParsePaletteRejectsEmptyKey(t *testing.T) {
	if _, err := lottery.ParsePalette([]byte("lotteries:\n  - key: \"\"\n")); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestParseNumbers(t *testing.T) {
	got := lottery.ParseNumbers("01 02,03;04  05", 6)
	if diff := cmp.Diff([]string{"01", "02", "03", "04", "05"}, got); diff != "" {
		t.Fatalf("ParseNumbers mismatch (-want +got):\n%s", diff)
	}
	placeholders := lottery.ParseNumbers("  ", 5)
	if diff := cmp.Diff([]string{"?", "?", "?", "?", "?"}, placeholders); diff != "" {
		t.Fatalf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawName(t *testing.T) {
	if got := (lottery.Draw{}).Name(); got != "Loteria" {
		t.Fatalf("unexpected default name %q", got)
	}
	if got := (lottery.Draw{Lottery: " Quina "}).Name(); got != "Quina" {
		t.Fatalf("unexpected name %q", got)
	}
}
