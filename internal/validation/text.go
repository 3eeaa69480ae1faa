package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFilenameLen = 100

// NormalizeCaption trims surrounding whitespace. The text itself is kept
// byte for byte.
func NormalizeCaption(caption string) string {
	return strings.TrimSpace(caption)
}

// SecureFilename reduces a user supplied filename to a safe ASCII name:
// accents are stripped (đ becomes d), path separators and whitespace become underscores and
// anything outside [A-Za-z0-9._-] is dropped. Returns "image" + ext when nothing
// usable is left.
func SecureFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}

	ascii = strings.NewReplacer("/", " ", "\\", " ", "đ", "d", "Đ", "D").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")

	var b strings.Builder
	for _, r := range ascii {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-') {
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")
	if len(out) > maxFilenameLen {
		ext := Ext(out)
		out = out[:maxFilenameLen-len(ext)] + ext
	}
	if out == "" || out == strings.TrimPrefix(Ext(name), ".") {
		return "image" + Ext(name)
	}
	return out
}
