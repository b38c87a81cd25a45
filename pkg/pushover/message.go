package pushover

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority is the Pushover delivery priority, from -2 (lowest) to 2 (emergency).
type Priority int

const (
	PriorityLowest    Priority = -2
	PriorityLow       Priority = -1
	PriorityNormal    Priority = 0
	PriorityHigh      Priority = 1
	PriorityEmergency Priority = 2
)

// Valid reports whether the priority is one the API accepts.
func (priority Priority) Valid() bool {
	return priority >= PriorityLowest && priority <= PriorityEmergency
}

func (priority Priority) String() string {
	return strconv.Itoa(int(priority))
}

// ParsePriority converts textual input such as a CLI flag into a Priority.
func ParsePriority(input string) (Priority, error) {
	trimmed := strings.TrimSpace(input)
	parsedValue, parseErr := strconv.Atoi(trimmed)
	if parseErr != nil || !Priority(parsedValue).Valid() {
		return PriorityNormal, &ValidationError{
			Fields: []string{FieldPriority},
			Reason: fmt.Sprintf("priority %q must be one of -2, -1, 0, 1, or 2", input),
		}
	}
	return Priority(parsedValue), nil
}

// Attachment is binary image content uploaded alongside a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is one notification as accepted by the Pushover Message API.
// String fields left empty, nil pointers and a false HTML flag are absent
// and never transmitted.
type Message struct {
	Token   string
	User    string
	Message string

	Attachment       *Attachment
	AttachmentBase64 string
	AttachmentType   string

	Device   string
	HTML     bool
	Priority *Priority
	Retry    *int
	Expire   *int
	Callback string
	Sound    string

	Timestamp *int64
	Title     string
	TTL       *int
	URL       string
	URLTitle  string
}

// Form field names, in the order they are encoded.
const (
	FieldToken            = "token"
	FieldUser             = "user"
	FieldMessage          = "message"
	FieldAttachment       = "attachment"
	FieldAttachmentBase64 = "attachment_base64"
	FieldAttachmentType   = "attachment_type"
	FieldDevice           = "device"
	FieldHTML             = "html"
	FieldPriority         = "priority"
	FieldRetry            = "retry"
	FieldExpire           = "expire"
	FieldCallback         = "callback"
	FieldSound            = "sound"
	FieldTimestamp        = "timestamp"
	FieldTitle            = "title"
	FieldTTL              = "ttl"
	FieldURL              = "url"
	FieldURLTitle         = "url_title"
)

// PriorityValue returns the effective priority, PriorityNormal when unset.
func (message Message) PriorityValue() Priority {
	if message.Priority == nil {
		return PriorityNormal
	}
	return *message.Priority
}
