package format

import (
	"fmt"
	"strings"

	"crashreporter/src/model"
)

// timestampLayout renders capture times with millisecond precision.
const timestampLayout = "2006-01-02 15:04:05.000"

// Format renders a captured detail chain as deterministic multi-section
// text. The section order and labels are a compatibility surface for log
// parsers; identical input always yields identical output. A nil detail
// yields an empty string. includeFrames toggles the stack trace section
// for every level of the chain.
func Format(detail *model.ExceptionDetail, includeFrames bool) string {
	if detail == nil {
		return ""
	}
	var b strings.Builder
	write(&b, detail, includeFrames)
	return b.String()
}

func write(b *strings.Builder, d *model.ExceptionDetail, includeFrames bool) {
	fmt.Fprintf(b, "Error Code: %s\n", d.ErrorCode)
	fmt.Fprintf(b, "Type: %s\n", d.ExceptionType)
	fmt.Fprintf(b, "Message: %s\n", d.Message)
	fmt.Fprintf(b, "Timestamp: %s\n", d.Timestamp.Format(timestampLayout))
	if d.Source != "" {
		fmt.Fprintf(b, "Source: %s\n", d.Source)
	}

	if rc := d.RootCause; rc != nil {
		b.WriteString("\n=== Root Cause ===\n")
		fmt.Fprintf(b, "File: %s\n", rc.FileName)
		fmt.Fprintf(b, "Line: %d\n", rc.LineNumber)
		fmt.Fprintf(b, "Method: %s\n", rc.QualifiedName())
	}

	if includeFrames && len(d.Frames) > 0 {
		b.WriteString("\n=== Stack Trace ===\n")
		for _, f := range d.Frames {
			tag := "[System]"
			if f.IsUserCode {
				tag = "[User Code]"
			}
			name := f.QualifiedName()
			if f.Parameters != "" {
				name += "(" + f.Parameters + ")"
			}
			fmt.Fprintf(b, "%s %s\n", tag, name)
			if f.FileName != "" {
				fmt.Fprintf(b, "    at %s:line %d\n", f.FileName, f.LineNumber)
			}
		}
	}

	if len(d.AdditionalData) > 0 {
		b.WriteString("\n=== Additional Information ===\n")
		for _, kv := range d.AdditionalData {
			fmt.Fprintf(b, "%s: %s\n", kv.Key, kv.Value)
		}
	}

	if d.InnerException != nil {
		b.WriteString("\n=== Inner Exception ===\n")
		write(b, d.InnerException, includeFrames)
	}
}
