package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked.
// Keys are compared lower-cased.
var sensitiveKeys = map[string]bool{
	"authorization":         true,
	"proxy-authorization":   true,
	"cookie":                true,
	"set-cookie":            true,
	"vmware-api-session-id": true,
	"vmware_soap_session":   true,
	"api_key":               true,
	"apikey":                true,
	"x-api-key":             true,
	"sid":                   true,
}

// sensitiveKeywords mask any key that contains them, e.g. "vcenter_password"
// or "esxi_root_passwd". The bare word "key" is left out on purpose since
// it matches "primary_key" and "key_count".
var sensitiveKeywords = []string{
	"password",
	"passwd",
	"passphrase",
	"secret",
	"token",
	"credential",
	"private",
	"session",
	"license",
}

// sensitivePatterns mask values regardless of the key they are logged under.
var sensitivePatterns = []*regexp.Regexp{
	// JWT (vSphere SSO SAML bearer tokens are often JWT-wrapped)
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// HTTP auth header values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// vSphere Web Services session cookie
	regexp.MustCompile(`(?i)vmware_soap_session\s*=`),

	// vSphere license key: five groups of five
	regexp.MustCompile(`^[A-Z0-9]{5}(-[A-Z0-9]{5}){4}$`),

	// PEM private key blocks
	regexp.MustCompile(`(?i)-----BEGIN.*PRIVATE KEY-----`),
}

// SecureHandler wraps an slog.Handler and masks sensitive attributes before
// handing records to it.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next falls back to slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle copies the record with masked attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, masked)
}

// WithAttrs masks attrs before attaching them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redactAttr(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup returns a handler that nests later attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

// redactAttr masks a single attribute, descending into groups.
func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, child := range group {
			masked[i] = redactAttr(child)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isSensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// isSensitiveKey reports whether values logged under key must be masked.
func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, word := range sensitiveKeywords {
		if strings.Contains(k, word) {
			return true
		}
	}
	return false
}

// isSensitiveValue reports whether value matches a credential pattern.
func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// levelFor maps the verbose flag to a minimum level.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger returns a text logger writing to w that masks sensitive
// attributes. Verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFor(verbose)}
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, opts)))
}
