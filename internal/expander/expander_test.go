package expander_test

import (
	"reflect"
	"slices"
	"testing"

	"jobmate/search-service/internal/expander"
)

// ── Tokenize ───────────────────────────────────────────────────────────────

func TestTokenize_DropsShortTokensAndStopWords(t *testing.T) {
	got := expander.Tokenize("Desenvolvedor de Software para a área de Dados")
	want := []string{"desenvolvedor", "software", "dados"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_PreservesDiacritics(t *testing.T) {
	got := expander.Tokenize("Analista Sênior de Segurança")
	want := []string{"analista", "sênior", "segurança"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_CollapsesIntraWordHyphen(t *testing.T) {
	got := expander.Tokenize("Front-End / Back-end")
	want := []string{"frontend", "backend"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_OnlyStopWords(t *testing.T) {
	if got := expander.Tokenize("de para com a o"); len(got) != 0 {
		t.Errorf("Tokenize(stop-words) = %v, want empty", got)
	}
}

// ── ExtractTerms ───────────────────────────────────────────────────────────

func TestExtractTerms_OriginalTokensComeFirst(t *testing.T) {
	got := expander.ExtractTerms("Desenvolvedor Frontend React")
	want := []string{"desenvolvedor", "frontend", "react"}
	if len(got) < 3 || !reflect.DeepEqual(got[:3], want) {
		t.Fatalf("ExtractTerms head = %v, want %v", got, want)
	}
}

func TestExtractTerms_AppliesEveryExpansionStep(t *testing.T) {
	got := expander.ExtractTerms("Desenvolvedor Frontend React")
	for _, term := range []string{
		"front-end",              // hyphen split
		"front end",              // hyphen split
		"desenvolvedores",        // plural toggle
		"react developer",        // tech variant
		"react desenvolvedor",    // tech variant
		"programador",            // synonym
		"developer",              // synonym / translation
		"redux",                  // related
		"html",                   // related
		"desenvolvedor frontend", // combination
		"desenvolvedor react",    // combination
		"frontend react",         // combination
	} {
		if !slices.Contains(got, term) {
			t.Errorf("ExtractTerms missing %q in %v", term, got)
		}
	}
}

func TestExtractTerms_SynonymsAreBidirectional(t *testing.T) {
	if got := expander.ExtractTerms("programador"); !slices.Contains(got, "desenvolvedor") {
		t.Errorf("programador should expand to desenvolvedor, got %v", got)
	}
	if got := expander.ExtractTerms("desenvolvedor"); !slices.Contains(got, "programador") {
		t.Errorf("desenvolvedor should expand to programador, got %v", got)
	}
}

func TestExtractTerms_TranslationsAreBidirectional(t *testing.T) {
	if got := expander.ExtractTerms("security"); !slices.Contains(got, "segurança") {
		t.Errorf("security should translate to segurança, got %v", got)
	}
}

func TestExtractTerms_CombinesOnlyFirstThreeTokens(t *testing.T) {
	got := expander.ExtractTerms("python django flask docker")
	if slices.Contains(got, "python docker") {
		t.Errorf("fourth token must not be combined, got %v", got)
	}
	if !slices.Contains(got, "django flask") {
		t.Errorf("expected combination of second and third token, got %v", got)
	}
}

func TestExtractTerms_NoDuplicatesNoShortTerms(t *testing.T) {
	got := expander.ExtractTerms("Golang Backend Golang")
	seen := map[string]bool{}
	for _, term := range got {
		if seen[term] {
			t.Errorf("duplicate term %q", term)
		}
		seen[term] = true
		if len([]rune(term)) < 3 {
			t.Errorf("short term %q leaked", term)
		}
	}
}

func TestExtractTerms_Deterministic(t *testing.T) {
	first := expander.ExtractTerms("Engenheiro de Dados Sênior Python")
	for i := 0; i < 20; i++ {
		if got := expander.ExtractTerms("Engenheiro de Dados Sênior Python"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestExtractTerms_EmptyForStopWords(t *testing.T) {
	if got := expander.ExtractTerms("de da do"); len(got) != 0 {
		t.Errorf("ExtractTerms(stop-words) = %v, want empty", got)
	}
}
