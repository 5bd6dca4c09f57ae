package model

import "time"

// StackFrameDetail describes one resolved call-stack location, annotated
// with a user-code vs framework-code classification.
type StackFrameDetail struct {
	FileName     string `json:"file_name,omitempty"`   // empty when no debug info
	LineNumber   int    `json:"line_number"`           // 0 = unknown
	ColumnNumber int    `json:"column_number"`         // 0 = unknown
	MethodName   string `json:"method_name,omitempty"` // empty when the method could not be resolved
	ClassName    string `json:"class_name,omitempty"`  // fully-qualified declaring type
	Parameters   string `json:"parameters,omitempty"`  // "type name, type name, ..."
	IsUserCode   bool   `json:"is_user_code"`
	Namespace    string `json:"namespace,omitempty"` // declaring package path
}

// QualifiedName returns "ClassName.MethodName" with either part omitted
// when unresolved. Used by the formatter and the root-cause section.
func (f StackFrameDetail) QualifiedName() string {
	switch {
	case f.ClassName != "" && f.MethodName != "":
		return f.ClassName + "." + f.MethodName
	case f.MethodName != "":
		return f.MethodName
	default:
		return f.ClassName
	}
}

// ExceptionDetail is one node of a captured error chain. Nodes are built
// once at capture time and treated as immutable afterwards; InnerException
// links the chain outermost-first.
type ExceptionDetail struct {
	Message        string             `json:"message"`
	ExceptionType  string             `json:"exception_type"`
	Source         string             `json:"source,omitempty"`
	Timestamp      time.Time          `json:"timestamp"` // capture time, not failure time
	StackTrace     string             `json:"stack_trace,omitempty"`
	Frames         []StackFrameDetail `json:"frames,omitempty"`
	RootCause      *StackFrameDetail  `json:"root_cause,omitempty"` // points into Frames
	InnerException *ExceptionDetail   `json:"inner_exception,omitempty"`
	ErrorCode      string             `json:"error_code"`
	AdditionalData Annotations        `json:"additional_data,omitempty"`
}
