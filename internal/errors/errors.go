package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure for callers that need to branch on it.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidURL
	KindInvalidMode
	KindInvalidOption
	KindMetadataFetch
	KindModelCall
	KindResponseParse
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindInvalidMode:
		return "invalid_mode"
	case KindInvalidOption:
		return "invalid_option"
	case KindMetadataFetch:
		return "metadata_fetch"
	case KindModelCall:
		return "model_call"
	case KindResponseParse:
		return "response_parse"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

func InvalidURL(op, url string) *Error {
	return New(KindInvalidURL, op, nil, fmt.Sprintf("invalid YouTube URL: %s", url))
}

func InvalidMode(op, mode string) *Error {
	return New(KindInvalidMode, op, nil, fmt.Sprintf("invalid mode: %q (expected summary, chapter or solution)", mode))
}

func InvalidOption(op string, err error) *Error {
	return New(KindInvalidOption, op, err, "invalid option")
}

func MetadataFetch(op string, err error, message string) *Error {
	return New(KindMetadataFetch, op, err, message)
}

func ModelCall(op string, err error, message string) *Error {
	return New(KindModelCall, op, err, message)
}

func ResponseParse(op string, err error, message string) *Error {
	return New(KindResponseParse, op, err, message)
}

func Unexpected(op string, err error) *Error {
	return New(KindUnexpected, op, err, "unexpected error")
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Processing wraps err in the envelope returned to dispatcher callers. The
// inner kind is preserved; the message gains a context prefix per kind.
func Processing(op string, err error) *Error {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	var message string
	switch kind {
	case KindInvalidURL, KindInvalidMode, KindInvalidOption:
		// Already user facing.
		var e *Error
		stderrors.As(err, &e)
		return &Error{Kind: kind, Op: op, Message: e.Error()}
	case KindMetadataFetch:
		message = "video processing failed"
	case KindModelCall:
		message = "model communication failed"
	case KindResponseParse:
		message = "response parsing failed"
	default:
		message = "unexpected error"
	}
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}
