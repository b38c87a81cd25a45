package pushover

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/tyemirov/pushover/pkg/attachments"
)

// Parameters is raw caller input, before validation.
type Parameters struct {
	Token   string
	User    string
	Message string

	// At most one attachment source may be set.
	AttachmentPath   string
	AttachmentData   []byte
	AttachmentBase64 string
	AttachmentType   string

	Device   string
	HTML     bool
	Priority string
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

// AttachmentLoader resolves an attachment specifier into file content.
type AttachmentLoader func(specifier string) (attachments.File, error)

// Builder validates Parameters and assembles Messages.
type Builder struct {
	LoadAttachment AttachmentLoader
}

// Build validates parameters with the default attachment loader.
func Build(parameters Parameters) (Message, error) {
	return Builder{}.Build(parameters)
}

// Build validates parameters and returns the Message they describe. Nothing
// is returned on a constraint violation or an attachment read failure.
func (builder Builder) Build(parameters Parameters) (Message, error) {
	if err := checkRequired(parameters); err != nil {
		return Message{}, err
	}

	priority, err := resolvePriority(parameters.Priority)
	if err != nil {
		return Message{}, err
	}
	if err := checkEmergency(parameters, priority); err != nil {
		return Message{}, err
	}
	if parameters.URLTitle != "" && parameters.URL == "" {
		return Message{}, invalid("url_title requires url", FieldURLTitle)
	}
	if err := checkAttachmentSources(parameters); err != nil {
		return Message{}, err
	}

	attachment, err := builder.resolveAttachment(parameters)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Token:            strings.TrimSpace(parameters.Token),
		User:             strings.TrimSpace(parameters.User),
		Message:          parameters.Message,
		Attachment:       attachment,
		AttachmentBase64: parameters.AttachmentBase64,
		AttachmentType:   parameters.AttachmentType,
		Device:           parameters.Device,
		HTML:             parameters.HTML,
		Priority:         priority,
		Retry:            copyInt(parameters.Retry),
		Expire:           copyInt(parameters.Expire),
		Callback:         parameters.Callback,
		Sound:            parameters.Sound,
		Timestamp:        copyInt64(parameters.Timestamp),
		Title:            parameters.Title,
		TTL:              copyInt(parameters.TTL),
		URL:              parameters.URL,
		URLTitle:         parameters.URLTitle,
	}, nil
}

func checkRequired(parameters Parameters) error {
	var missing []string
	if strings.TrimSpace(parameters.Token) == "" {
		missing = append(missing, FieldToken)
	}
	if strings.TrimSpace(parameters.User) == "" {
		missing = append(missing, FieldUser)
	}
	if strings.TrimSpace(parameters.Message) == "" {
		missing = append(missing, FieldMessage)
	}
	if len(missing) > 0 {
		return invalid("required value missing", missing...)
	}
	return nil
}

func resolvePriority(input string) (*Priority, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	priority, err := ParsePriority(input)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

func checkEmergency(parameters Parameters, priority *Priority) error {
	emergency := priority != nil && *priority == PriorityEmergency
	hasRetry := parameters.Retry != nil
	hasExpire := parameters.Expire != nil

	if hasRetry != hasExpire {
		return invalid("retry and expire must be set together", FieldRetry, FieldExpire)
	}
	if emergency && !hasRetry {
		return invalid("priority 2 requires retry and expire", FieldPriority, FieldRetry, FieldExpire)
	}
	if hasRetry && !emergency {
		return invalid("retry and expire require priority 2", FieldRetry, FieldExpire, FieldPriority)
	}
	if hasRetry && (*parameters.Retry <= 0 || *parameters.Expire <= 0) {
		return invalid("retry and expire must be positive", FieldRetry, FieldExpire)
	}
	if parameters.Callback != "" && !emergency {
		return invalid("callback requires priority 2", FieldCallback, FieldPriority)
	}
	return nil
}

func checkAttachmentSources(parameters Parameters) error {
	var sources []string
	if strings.TrimSpace(parameters.AttachmentPath) != "" || parameters.AttachmentData != nil {
		sources = append(sources, FieldAttachment)
	}
	if strings.TrimSpace(parameters.AttachmentPath) != "" && parameters.AttachmentData != nil {
		return invalid("attachment path and attachment data are mutually exclusive", FieldAttachment)
	}
	if parameters.AttachmentBase64 != "" {
		sources = append(sources, FieldAttachmentBase64)
		if _, decodeErr := base64.StdEncoding.DecodeString(parameters.AttachmentBase64); decodeErr != nil {
			return invalid("attachment_base64 is not valid base64", FieldAttachmentBase64)
		}
	}
	if len(sources) > 1 {
		return invalid("only one attachment source may be set", sources...)
	}
	if parameters.AttachmentType != "" && len(sources) == 0 {
		return invalid("attachment_type requires an attachment", FieldAttachmentType)
	}
	if len(parameters.AttachmentData) > attachments.MaxBytes {
		return invalid("attachment exceeds the 5 MiB limit", FieldAttachment)
	}
	return nil
}

func (builder Builder) resolveAttachment(parameters Parameters) (*Attachment, error) {
	if parameters.AttachmentData != nil {
		return &Attachment{
			Name:        "attachment",
			ContentType: parameters.AttachmentType,
			Data:        append([]byte(nil), parameters.AttachmentData...),
		}, nil
	}

	specifier := strings.TrimSpace(parameters.AttachmentPath)
	if specifier == "" {
		return nil, nil
	}

	load := builder.LoadAttachment
	if load == nil {
		load = attachments.Load
	}
	file, loadErr := load(specifier)
	if loadErr != nil {
		if errors.Is(loadErr, attachments.ErrTooLarge) {
			return nil, invalid("attachment exceeds the 5 MiB limit", FieldAttachment)
		}
		return nil, &AttachmentError{Path: specifier, Err: loadErr}
	}

	contentType := file.ContentType
	if parameters.AttachmentType != "" {
		contentType = parameters.AttachmentType
	}
	return &Attachment{
		Name:        file.Name,
		ContentType: contentType,
		Data:        file.Data,
	}, nil
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
