package capture

import "testing"

func TestIsUserCode(t *testing.T) {
	prefixes := DefaultSystemPrefixes

	tests := []struct {
		name     string
		typeName string
		want     bool
	}{
		{"application package", "crashreporter/src/handler.ReportHandler", true},
		{"third-party module", "github.com/sirupsen/logrus.Logger", true},
		{"runtime package", "runtime.goexit", false},
		{"runtime subpackage", "runtime/debug.Stack", false},
		{"reflect", "reflect.Value", false},
		{"syscall", "syscall.Syscall", false},
		{"testing", "testing.tRunner", false},
		{"internal package", "internal/poll.FD", false},
		{"empty name defaults to user code", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserCode(tt.typeName, prefixes); got != tt.want {
				t.Fatalf("IsUserCode(%q) = %v, want %v", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestIsUserCodeCustomPrefixes(t *testing.T) {
	prefixes := []string{"github.com/vendor/"}

	if IsUserCode("github.com/vendor/sdk.Client", prefixes) {
		t.Fatal("expected vendor prefix to classify as system code")
	}
	if !IsUserCode("runtime.goexit", prefixes) {
		t.Fatal("runtime should be user code when not listed in the prefix set")
	}
}
