package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Field names whose values are always masked. The list covers generic
// credential material plus the object-store keys this service carries in
// its configuration.
var secretFieldNames = []string{
	"password",
	"secret",
	"token",
	"apiKey",
	"apikey",
	"api_key",
	"accessKey",
	"access_key",
	"accessKeyID",
	"accessToken",
	"access_token",
	"refreshToken",
	"refresh_token",
	"secretKey",
	"secret_key",
	"secretAccessKey",
	"credential",
	"credentials",
	"authorization",
	"auth",
	"bearer",
	"cookie",
	"session",
	"privateKey",
	"private_key",
	"dsn",
}

// Value patterns masked regardless of the field they appear under.
var secretValuePatterns = []*regexp.Regexp{
	// JWT: three dot-separated base64url segments
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Authorization header values
	regexp.MustCompile(`(?i)^bearer\s+.+$`),
	regexp.MustCompile(`(?i)^basic\s+.+$`),
}

// DefaultRedactOptions returns the masq options applied to every log record.
// Callers that log additional secret-bearing types can append their own
// options before passing the slice to NewReplaceAttr.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFieldNames)+len(secretValuePatterns)+2)
	for _, name := range secretFieldNames {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
	)
	for _, pattern := range secretValuePatterns {
		opts = append(opts, masq.WithRegex(pattern))
	}
	return opts
}

// NewReplaceAttr builds the ReplaceAttr function wired into every handler's
// slog.HandlerOptions. Extra masq options extend DefaultRedactOptions.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
