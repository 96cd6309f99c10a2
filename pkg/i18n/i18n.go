package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

const defaultLang = "en"

// Translator resolves message keys to localized text. Lookups never fail: a
// missing key falls back to the default language, then to the key itself, so
// translation state can never affect control flow.
type Translator struct {
	messages map[string]map[string]string
}

func New() (*Translator, error) {
	t := &Translator{messages: map[string]map[string]string{}}

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale catalogs: %w", err)
	}

	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}

		var nested map[string]any
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("invalid locale catalog %s: %w", lang, err)
		}

		flat := map[string]string{}
		flatten("", nested, flat)
		t.messages[lang] = flat
	}

	return t, nil
}

// T looks up key for lang and substitutes {name} placeholders from args.
func (t *Translator) T(key, lang string, args map[string]string) string {
	msg, ok := t.lookup(key, lang)
	if !ok {
		msg, ok = t.lookup(key, defaultLang)
	}
	if !ok {
		msg = key
	}

	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}

	return msg
}

func (t *Translator) lookup(key, lang string) (string, bool) {
	catalog, ok := t.messages[normalizeLang(lang)]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}

// normalizeLang reduces values like "vi-VN" or "en-US,en;q=0.9" to a catalog name.
func normalizeLang(lang string) string {
	lang = strings.TrimSpace(strings.ToLower(lang))
	if i := strings.IndexAny(lang, "-_,;"); i > 0 {
		lang = lang[:i]
	}
	if lang == "" {
		return defaultLang
	}
	return lang
}

func flatten(prefix string, nested map[string]any, out map[string]string) {
	for key, value := range nested {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			flatten(full, v, out)
		}
	}
}
