package pushover

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMessage marks input that violates the message schema.
	ErrInvalidMessage = errors.New("pushover: invalid_message")
	// ErrAttachmentRead marks a local attachment that could not be read.
	ErrAttachmentRead = errors.New("pushover: attachment_read")
	// ErrTransport marks a request that did not complete.
	ErrTransport = errors.New("pushover: transport")
)

// ValidationError identifies the offending fields of a rejected message.
type ValidationError struct {
	Fields []string
	Reason string
}

func (validationError *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", strings.Join(validationError.Fields, ", "), validationError.Reason)
}

func (validationError *ValidationError) Is(target error) bool {
	return target == ErrInvalidMessage
}

// AttachmentError wraps the I/O failure raised while reading an attachment.
type AttachmentError struct {
	Path string
	Err  error
}

func (attachmentError *AttachmentError) Error() string {
	return fmt.Sprintf("failed to read attachment file (%v)", attachmentError.Err)
}

func (attachmentError *AttachmentError) Unwrap() error {
	return attachmentError.Err
}

func (attachmentError *AttachmentError) Is(target error) bool {
	return target == ErrAttachmentRead
}

func invalid(reason string, fields ...string) error {
	return &ValidationError{Fields: fields, Reason: reason}
}
