package i18n

import (
	"strings"
	"testing"
)

func TestGetCatalogMatchesLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "en-US"},
		{"en", "en-US"},
		{"zh-CN", "zh-CN"},
		{"zh", "zh-CN"},
		{"zh-Hans", "zh-CN"},
		{"fr-FR", "en-US"},
		{"", "en-US"},
		{"not a locale", "en-US"},
	}
	for _, tc := range tests {
		if got := GetCatalog(tc.locale).Locale(); got != tc.want {
			t.Errorf("GetCatalog(%q) = %s, want %s", tc.locale, got, tc.want)
		}
	}
}

func TestFormatSubstitutesMetadata(t *testing.T) {
	got := enUSCatalog.Format(CodeInsufficientFragments, map[string]string{
		"Need": "3",
		"Have": "1",
	})
	if !strings.Contains(got, "3") || !strings.Contains(got, "1") {
		t.Fatalf("expected metadata substitution, got %q", got)
	}
	if strings.Contains(got, "{{") {
		t.Fatalf("expected no remaining placeholders, got %q", got)
	}
}

func TestFormatUnknownCodeFallsBackToCode(t *testing.T) {
	if got := enUSCatalog.Format("NO_SUCH_CODE", nil); got != "NO_SUCH_CODE" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUSCatalog.messages {
		if _, ok := zhCNCatalog.messages[code]; !ok {
			t.Errorf("zh-CN catalog is missing %s", code)
		}
	}
	for code := range zhCNCatalog.messages {
		if _, ok := enUSCatalog.messages[code]; !ok {
			t.Errorf("en-US catalog is missing %s", code)
		}
	}
}
