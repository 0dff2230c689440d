// Package i18n provides locale catalogs for user-facing error messages.
package i18n

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code mirrors the error code strings defined in the errors package.
// They are duplicated here to avoid an import cycle.
type Code = string

// Catalog stores the user-facing messages for one locale.
type Catalog struct {
	locale   string
	tag      language.Tag
	messages map[Code]string
}

var catalogs = []*Catalog{enUSCatalog, zhCNCatalog}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(catalogs))
	for _, c := range catalogs {
		c.tag = language.MustParse(c.locale)
		tags = append(tags, c.tag)
	}
	return language.NewMatcher(tags)
}()

// GetCatalog returns the best catalog for the requested locale,
// falling back to en-US when the locale is unknown or malformed.
func GetCatalog(locale string) *Catalog {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return enUSCatalog
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return enUSCatalog
	}
	return catalogs[index]
}

// Locale returns the catalog's canonical locale identifier.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code, substituting metadata values into
// {{.Key}} placeholders. Unknown codes fall back to the code itself so a
// missing translation never hides the failure class.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	msg, ok := c.messages[code]
	if !ok {
		return code
	}
	if len(metadata) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}

	tmpl, err := template.New(code).Parse(msg)
	if err != nil {
		return msg
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return msg
	}
	return sb.String()
}
