package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestNewBundle_LoadsEmbeddedLocales(t *testing.T) {
	b, err := NewBundle(LocalesFS)
	if err != nil {
		t.Fatalf("load embedded locales: %v", err)
	}
	for _, code := range []string{"en", "hi", "bn", "ta", "te", "mr", "gu", "kn", "ml", "pa", "ur"} {
		if !b.Has(code) {
			t.Errorf("locale %s missing", code)
		}
	}
	if got := len(b.Supported()); got != 11 {
		t.Fatalf("supported = %d locales, want 11", got)
	}
}

func TestEmbeddedLocalesShareKeySet(t *testing.T) {
	b, err := NewBundle(LocalesFS)
	if err != nil {
		t.Fatalf("load embedded locales: %v", err)
	}
	// Every language must cover the keys the controller emits. The en table
	// additionally carries preamble.* which other languages do not need.
	required := []string{
		"welcome.customer", "welcome.worker",
		"fallback.network", "fallback.quota", "fallback.api", "fallback.unknown",
		"escalation.handoff",
	}
	for _, code := range b.Supported() {
		for _, key := range required {
			if _, ok := b.byLang[code][key]; !ok {
				t.Errorf("locale %s missing key %s", code, key)
			}
		}
	}
}

func TestT_FallsBackToEnglishThenKey(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("greeting: Hello\nonly.en: English only\n")},
		"locales/hi.yaml": {Data: []byte("greeting: नमस्ते\n")},
	}
	b, err := NewBundle(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T("hi", "greeting"); !strings.Contains(got, "नमस्ते") {
		t.Fatalf("hi greeting = %q", got)
	}
	if got := b.T("hi", "only.en"); got != "English only" {
		t.Fatalf("missing hi key should fall back to en, got %q", got)
	}
	if got := b.T("hi", "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key should echo the key, got %q", got)
	}
	if got := b.T("xx", "greeting"); got != "Hello" {
		t.Fatalf("unknown language should fall back to en, got %q", got)
	}
}

func TestT_FormatsArguments(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte(`contact: "Call %s or write to %s."` + "\n")},
	}
	b, err := NewBundle(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := b.T("en", "contact", "1800-11-0011", "support@nagriksewa.in")
	if got != "Call 1800-11-0011 or write to support@nagriksewa.in." {
		t.Fatalf("formatted = %q", got)
	}
}

func TestNewBundle_RequiresEnglish(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/hi.yaml": {Data: []byte("greeting: hi\n")},
	}
	if _, err := NewBundle(fsys); err == nil {
		t.Fatal("bundle without en.yaml must fail to load")
	}
}
