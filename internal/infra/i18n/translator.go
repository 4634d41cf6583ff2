package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

const fallbackLang = "en"

// Bundle holds the translation tables for every supported language.
// Lookup falls back to English, then to the key itself, so a missing
// template never produces an empty user-visible string.
type Bundle struct {
	byLang map[string]map[string]string
}

// NewBundle loads every locales/<code>.yaml from fsys.
func NewBundle(fsys fs.FS) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	byLang := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		code := strings.TrimSuffix(name, ".yaml")
		data, err := fs.ReadFile(fsys, path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read translation file %s: %w", name, err)
		}
		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse translation file %s: %w", name, err)
		}
		byLang[code] = table
	}
	if _, ok := byLang[fallbackLang]; !ok {
		return nil, fmt.Errorf("locales must include %s.yaml", fallbackLang)
	}
	return &Bundle{byLang: byLang}, nil
}

// Supported returns the loaded language codes, sorted.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.byLang))
	for code := range b.byLang {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (b *Bundle) Has(lang string) bool {
	_, ok := b.byLang[lang]
	return ok
}

// T resolves key in lang, falling back to English and finally to the key.
func (b *Bundle) T(lang, key string, args ...interface{}) string {
	format, ok := b.byLang[lang][key]
	if !ok {
		format, ok = b.byLang[fallbackLang][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
