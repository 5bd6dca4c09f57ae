package capture

import "strings"

// DefaultSystemPrefixes marks the Go runtime and its support packages as
// framework code. Everything else, including third-party modules, counts as
// user code unless the caller configures additional prefixes.
var DefaultSystemPrefixes = []string{
	"runtime",
	"reflect",
	"syscall",
	"testing",
	"internal/",
}

// IsUserCode reports whether a declaring type belongs to application code.
// It is false iff the fully-qualified type name starts with one of the
// configured system prefixes. An empty name never matches a prefix and is
// therefore classified as user code; root-cause selection relies on that
// default, so it must not change (see the extractor contract).
func IsUserCode(declaringTypeFullName string, systemPrefixes []string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(declaringTypeFullName, prefix) {
			return false
		}
	}
	return true
}
