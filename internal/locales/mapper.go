package locales

import "strings"

// Mapper converts between CMS language codes (BCP-47 style, lowercase,
// hyphenated) and TMS locale identifiers (underscore form with an uppercase
// region, e.g. pt-pt -> pt_PT). The mapping is bidirectional and injective on
// the supported set so every conversion round-trips.
//
// Lookups outside the supported set report "not found" instead of failing, so
// bulk request loops can skip unsupported languages silently.
type Mapper struct {
	toLocale map[string]string
	toLang   map[string]string
}

// Option customizes mapper construction.
type Option func(*builder)

type builder struct {
	langcodes []string
	overrides map[string]string
}

// WithLanguages sets the supported CMS language codes. When omitted the
// default language set is used.
func WithLanguages(langcodes []string) Option {
	return func(b *builder) {
		if len(langcodes) > 0 {
			b.langcodes = langcodes
		}
	}
}

// WithMapping pins an explicit langcode -> locale pair, overriding both the
// special-case table and the derivation rule.
func WithMapping(langcode, locale string) Option {
	return func(b *builder) {
		langcode = NormalizeLangcode(langcode)
		locale = strings.TrimSpace(locale)
		if langcode != "" && locale != "" {
			b.overrides[langcode] = locale
		}
	}
}

// specialLocales captures langcodes whose TMS locale is not derivable from the
// generic rule.
var specialLocales = map[string]string{
	"zh-hans": "zh_CN",
	"zh-hant": "zh_TW",
	"nb":      "no_NO",
	"en":      "en_US",
	"es":      "es_ES",
	"ja":      "ja_JP",
	"ko":      "ko_KR",
	"cs":      "cs_CZ",
	"da":      "da_DK",
	"sv":      "sv_SE",
	"he":      "he_IL",
	"el":      "el_GR",
	"vi":      "vi_VN",
	"uk":      "uk_UA",
	"ar":      "ar_SA",
}

// defaultLangcodes is the language set supported out of the box. Hosts with
// other languages configure them explicitly.
var defaultLangcodes = []string{
	"en", "en-gb", "es", "es-mx", "pt-pt", "pt-br", "fr", "fr-ca", "de",
	"it", "nl", "pl", "ru", "ja", "ko", "zh-hans", "zh-hant", "ar", "tr",
	"sv", "da", "fi", "nb", "cs", "hu", "el", "he", "th", "vi", "uk",
}

// NewMapper builds a mapper for the supported language set.
func NewMapper(opts ...Option) *Mapper {
	b := &builder{overrides: map[string]string{}}
	for _, opt := range opts {
		opt(b)
	}
	langcodes := b.langcodes
	if len(langcodes) == 0 {
		langcodes = defaultLangcodes
	}

	m := &Mapper{
		toLocale: make(map[string]string, len(langcodes)+len(b.overrides)),
		toLang:   make(map[string]string, len(langcodes)+len(b.overrides)),
	}
	for _, raw := range langcodes {
		langcode := NormalizeLangcode(raw)
		if langcode == "" {
			continue
		}
		locale, ok := b.overrides[langcode]
		if !ok {
			locale = deriveLocale(langcode)
		}
		m.register(langcode, locale)
	}
	for langcode, locale := range b.overrides {
		m.register(langcode, locale)
	}
	return m
}

func (m *Mapper) register(langcode, locale string) {
	if langcode == "" || locale == "" {
		return
	}
	// First registration wins on the reverse side to keep the map injective.
	if _, exists := m.toLang[locale]; exists && m.toLocale[langcode] != locale {
		return
	}
	m.toLocale[langcode] = locale
	m.toLang[locale] = langcode
}

// ToTMSLocale resolves the TMS locale for a CMS language code. The second
// return reports whether the language is supported.
func (m *Mapper) ToTMSLocale(langcode string) (string, bool) {
	locale, ok := m.toLocale[NormalizeLangcode(langcode)]
	return locale, ok
}

// ToLangcode resolves the CMS language code for a TMS locale.
func (m *Mapper) ToLangcode(locale string) (string, bool) {
	langcode, ok := m.toLang[strings.TrimSpace(locale)]
	return langcode, ok
}

// Supported returns the supported language codes, unordered.
func (m *Mapper) Supported() []string {
	out := make([]string, 0, len(m.toLocale))
	for langcode := range m.toLocale {
		out = append(out, langcode)
	}
	return out
}

// NormalizeLangcode lowercases and trims a CMS language code.
func NormalizeLangcode(langcode string) string {
	return strings.ToLower(strings.TrimSpace(langcode))
}

// deriveLocale applies the generic conversion rule: hyphen to underscore with
// an uppercase region ("pt-pt" -> "pt_PT"); bare codes double up the region
// ("de" -> "de_DE") except when a special-case entry applies.
func deriveLocale(langcode string) string {
	if locale, ok := specialLocales[langcode]; ok {
		return locale
	}
	parts := strings.SplitN(langcode, "-", 2)
	if len(parts) == 2 {
		return parts[0] + "_" + strings.ToUpper(parts[1])
	}
	return langcode + "_" + strings.ToUpper(langcode)
}
