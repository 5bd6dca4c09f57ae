package capture

import (
	"strings"

	"crashreporter/src/model"
)

// extractFrame converts one raw introspection frame into a StackFrameDetail.
// It is total: missing metadata degrades to empty/zero sentinels, never to
// an error. An unresolved method leaves every name empty, which classifies
// the frame as user code.
func extractFrame(raw RawFrame, systemPrefixes []string) model.StackFrameDetail {
	detail := model.StackFrameDetail{
		FileName:     raw.File,
		LineNumber:   raw.Line,
		ColumnNumber: raw.Column,
		IsUserCode:   true,
	}
	if raw.Line < 0 {
		detail.LineNumber = 0
	}
	if raw.Column < 0 {
		detail.ColumnNumber = 0
	}

	if m := raw.Method; m != nil {
		detail.MethodName = m.Name
		detail.ClassName = m.FullTypeName()
		detail.Namespace = m.Namespace
		detail.Parameters = formatParams(m.Params)
	}
	detail.IsUserCode = IsUserCode(detail.ClassName, systemPrefixes)

	return detail
}

// formatParams joins each parameter as "<type> <name>" with ", ".
func formatParams(params []ParamInfo) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, strings.TrimSpace(p.Type+" "+p.Name))
	}
	return strings.Join(parts, ", ")
}
