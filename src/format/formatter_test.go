package format

import (
	"strings"
	"testing"
	"time"

	"crashreporter/src/model"
)

func sampleDetail() *model.ExceptionDetail {
	frames := []model.StackFrameDetail{
		{
			FileName:   "/src/app/parser.go",
			LineNumber: 42,
			MethodName: "ParseHeader",
			ClassName:  "app/parse.Parser",
			Namespace:  "app/parse",
			Parameters: "string input",
			IsUserCode: true,
		},
		{
			MethodName: "goexit",
			ClassName:  "runtime",
			Namespace:  "runtime",
			IsUserCode: false,
		},
	}

	detail := &model.ExceptionDetail{
		Message:       "unexpected header",
		ExceptionType: "app/parse.HeaderError",
		Source:        "app/parse",
		Timestamp:     time.Date(2026, time.August, 25, 10, 30, 0, 123_000_000, time.UTC),
		Frames:        frames,
		RootCause:     &frames[0],
		ErrorCode:     "E1A2B3C4D",
		InnerException: &model.ExceptionDetail{
			Message:       "read failed",
			ExceptionType: "io/fs.PathError",
			Timestamp:     time.Date(2026, time.August, 25, 10, 30, 0, 100_000_000, time.UTC),
			ErrorCode:     "E00000001",
		},
	}
	detail.AdditionalData.Set("MachineName", "worker-1")
	detail.AdditionalData.Set("ProcessId", "4242")
	return detail
}

func TestFormatNil(t *testing.T) {
	if got := Format(nil, true); got != "" {
		t.Fatalf("nil detail must format to empty text, got %q", got)
	}
}

func TestFormatSections(t *testing.T) {
	text := Format(sampleDetail(), true)

	wantInOrder := []string{
		"Error Code: E1A2B3C4D",
		"Type: app/parse.HeaderError",
		"Message: unexpected header",
		"Timestamp: 2026-08-25 10:30:00.123",
		"Source: app/parse",
		"=== Root Cause ===",
		"File: /src/app/parser.go",
		"Line: 42",
		"Method: app/parse.Parser.ParseHeader",
		"=== Stack Trace ===",
		"[User Code] app/parse.Parser.ParseHeader(string input)",
		"    at /src/app/parser.go:line 42",
		"[System] runtime.goexit",
		"=== Additional Information ===",
		"MachineName: worker-1",
		"ProcessId: 4242",
		"=== Inner Exception ===",
		"Message: read failed",
	}

	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(text[pos:], want)
		if idx < 0 {
			t.Fatalf("missing or out of order: %q\n%s", want, text)
		}
		pos += idx + len(want)
	}
}

func TestFormatOmitsEmptySections(t *testing.T) {
	detail := &model.ExceptionDetail{
		Message:       "bare",
		ExceptionType: "app.Err",
		Timestamp:     time.Unix(0, 0).UTC(),
		ErrorCode:     "E00000000",
	}

	text := Format(detail, true)
	for _, section := range []string{"=== Root Cause ===", "=== Stack Trace ===", "=== Additional Information ===", "=== Inner Exception ===", "Source:"} {
		if strings.Contains(text, section) {
			t.Fatalf("empty detail should not render %q:\n%s", section, text)
		}
	}
}

func TestFormatWithoutFrames(t *testing.T) {
	text := Format(sampleDetail(), false)
	if strings.Contains(text, "=== Stack Trace ===") {
		t.Fatal("includeFrames=false must suppress the stack trace section")
	}
	// The root cause section does not depend on frame rendering.
	if !strings.Contains(text, "=== Root Cause ===") {
		t.Fatal("root cause section should survive includeFrames=false")
	}
}

// A frame without a resolved file gets no "at" sub-line.
func TestFormatFrameWithoutFile(t *testing.T) {
	detail := sampleDetail()
	text := Format(detail, true)
	if strings.Contains(text, "at :line") {
		t.Fatalf("frames without files must not render a location sub-line:\n%s", text)
	}
}

func TestFormatIdempotent(t *testing.T) {
	detail := sampleDetail()
	first := Format(detail, true)
	second := Format(detail, true)
	if first != second {
		t.Fatal("formatting the same unmodified detail twice must be identical")
	}
}
