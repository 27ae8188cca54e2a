package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength bounds canvas names.
const MaxNameLength = 200

// ValidateName validates a canvas name.
//
// Names are free text shown in titles and list views, so the rules only
// reject what cannot be displayed:
//   - No empty or whitespace-only names
//   - No control characters (newlines included)
//   - Maximum length of MaxNameLength runes
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "canvas name cannot be empty")
	}
	if len([]rune(name)) > MaxNameLength {
		return New(ErrCodeInvalidInput, "canvas name too long (max %d characters)", MaxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "canvas name contains invalid control characters")
		}
	}
	return nil
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a colour override. Empty means "use the default"
// and is accepted; anything else must be a #rgb, #rrggbb or #rrggbbaa hex value.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if !hexColorRe.MatchString(c) {
		return New(ErrCodeInvalidInput, "invalid color %q (want #rrggbb)", c)
	}
	return nil
}

// ValidateURL validates an image reference attached to a node.
// Only absolute http(s) URLs and data: URIs are accepted. Empty is accepted.
func ValidateURL(raw string) error {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "data:") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid image url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "image url must be http(s): %q", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "image url has no host: %q", raw)
	}
	return nil
}
