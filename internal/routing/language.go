package routing

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

const (
	languageKeyPrefix = "language:"
	LangQueryParam    = "lang"
)

// ContextLangFromURLKey extracts the iso code from collection url keys such as
// "language:fr" or "language:fr/whatever". Anything after a slash is not part
// of the code.
func ContextLangFromURLKey(urlKey string) (string, bool) {
	if !strings.HasPrefix(urlKey, languageKeyPrefix) {
		return "", false
	}
	iso, _, _ := strings.Cut(strings.TrimPrefix(urlKey, languageKeyPrefix), "/")
	return iso, true
}

// ContextLangFromQuery reads the language from the "lang" query parameter.
// Unlike ContextLangFromURLKey the value must be a well-formed BCP 47 tag and
// is returned in canonical form.
func ContextLangFromQuery(values url.Values) (string, bool) {
	raw := strings.TrimSpace(values.Get(LangQueryParam))
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
