// Package catalog loads the localized report messages and builds printers
// that format them.
//
// Catalog files live under locales/<locale>/<namespace>.yaml. Keys missing
// from a locale fall back through the locale's parents to the base locale.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textcatalog "golang.org/x/text/message/catalog"
)

const (
	// BaseLocale is the canonical source locale for catalogs.
	BaseLocale = "en-US"
)

type catalogFile struct {
	Locale    string
	Namespace string
	Messages  map[string]string
}

// LocaleCatalog stores all messages for one locale.
type LocaleCatalog struct {
	Locale     string
	Namespaces []string
	Messages   map[string]string
}

// Bundle contains all locale catalogs and the x/text catalog built from them.
type Bundle struct {
	locales map[string]*LocaleCatalog
	builder *textcatalog.Builder
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads catalog files from the provided filesystem.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		parsed, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := bundle.addFile(path, parsed); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := bundle.build(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (b *Bundle) addFile(path string, file catalogFile) error {
	localeFromPath := filepath.Base(filepath.Dir(path))
	namespaceFromPath := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", path, locale, localeFromPath)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if namespace != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", path, namespace, namespaceFromPath)
	}

	localeCatalog, ok := b.locales[locale]
	if !ok {
		localeCatalog = &LocaleCatalog{Locale: locale, Messages: map[string]string{}}
		b.locales[locale] = localeCatalog
	}
	localeCatalog.Namespaces = append(localeCatalog.Namespaces, namespace)

	for key, value := range file.Messages {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if _, exists := localeCatalog.Messages[trimmedKey]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", path, trimmedKey, locale)
		}
		localeCatalog.Messages[trimmedKey] = value
	}
	return nil
}

// build registers every locale with an x/text catalog builder. Each locale is
// also registered under its base language, and the base locale under the
// undetermined language so every tag resolves to some message.
func (b *Bundle) build() error {
	base := language.MustParse(BaseLocale)
	builder := textcatalog.NewBuilder(textcatalog.Fallback(base))

	set := func(tag language.Tag, messages map[string]string) error {
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := builder.SetString(tag, key, messages[key]); err != nil {
				return fmt.Errorf("register %s %q: %w", tag, key, err)
			}
		}
		return nil
	}

	if err := set(language.Und, b.locales[BaseLocale].Messages); err != nil {
		return err
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if lang, _ := tag.Base(); lang.String() != "und" {
			if baseTag, err := language.Parse(lang.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for _, registerTag := range tags {
			if err := set(registerTag, b.locales[locale].Messages); err != nil {
				return err
			}
		}
	}
	b.builder = builder
	return nil
}

// Printer returns a printer that formats numbers for tag and resolves
// message keys against the bundle.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	if b == nil || b.builder == nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(b.builder))
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message returns one message value with base-locale fallback.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	trimmedLocale := strings.TrimSpace(locale)
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", false
	}
	if catalog, ok := b.locales[trimmedLocale]; ok {
		if value, exists := catalog.Messages[trimmedKey]; exists {
			return value, true
		}
	}
	if trimmedLocale != BaseLocale {
		if catalog, ok := b.locales[BaseLocale]; ok {
			value, exists := catalog.Messages[trimmedKey]
			return value, exists
		}
	}
	return "", false
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}

// parseCatalogFile reads the flat subset of YAML used by catalog files:
// quoted locale and namespace scalars and one quoted pair per message.
func parseCatalogFile(data []byte) (catalogFile, error) {
	out := catalogFile{Messages: map[string]string{}}
	inMessages := false

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.Locale = value
		case strings.HasPrefix(line, "namespace:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse namespace: %w", err)
			}
			out.Namespace = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return catalogFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseMessageEntry(line)
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse message entry %q: %w", line, err)
			}
			out.Messages[key] = value
		}
	}

	switch {
	case out.Locale == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case out.Namespace == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(out.Messages) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func parseMessageEntry(line string) (string, string, error) {
	keyToken, rest, err := splitQuotedToken(line)
	if err != nil {
		return "", "", err
	}
	key, err := strconv.Unquote(keyToken)
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(rest, ":")))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

func splitQuotedToken(line string) (string, string, error) {
	if !strings.HasPrefix(line, "\"") {
		return "", "", fmt.Errorf("expected quoted token")
	}
	escaped := false
	for i := 1; i < len(line); i++ {
		switch ch := line[i]; {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			return line[:i+1], line[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted token")
}
