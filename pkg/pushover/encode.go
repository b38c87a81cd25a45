package pushover

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
)

const (
	defaultAttachmentName = "attachment"
	defaultAttachmentType = "application/octet-stream"
	htmlEnabledValue      = "1"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// WriteMultipart appends one form part per present field, in schema order,
// and closes the writer.
func (message Message) WriteMultipart(writer *multipart.Writer) error {
	fieldWriter := formWriter{writer: writer}

	fieldWriter.text(FieldToken, message.Token)
	fieldWriter.text(FieldUser, message.User)
	fieldWriter.text(FieldMessage, message.Message)
	fieldWriter.attachment(message.Attachment)
	fieldWriter.text(FieldAttachmentBase64, message.AttachmentBase64)
	fieldWriter.text(FieldAttachmentType, message.AttachmentType)
	fieldWriter.text(FieldDevice, message.Device)
	if message.HTML {
		fieldWriter.text(FieldHTML, htmlEnabledValue)
	}
	if message.Priority != nil {
		fieldWriter.integer(FieldPriority, int64(*message.Priority))
	}
	fieldWriter.optionalInt(FieldRetry, message.Retry)
	fieldWriter.optionalInt(FieldExpire, message.Expire)
	fieldWriter.text(FieldCallback, message.Callback)
	fieldWriter.text(FieldSound, message.Sound)
	if message.Timestamp != nil {
		fieldWriter.integer(FieldTimestamp, *message.Timestamp)
	}
	fieldWriter.text(FieldTitle, message.Title)
	fieldWriter.optionalInt(FieldTTL, message.TTL)
	fieldWriter.text(FieldURL, message.URL)
	fieldWriter.text(FieldURLTitle, message.URLTitle)

	if fieldWriter.err != nil {
		return fieldWriter.err
	}
	return writer.Close()
}

// formWriter stops writing after the first error.
type formWriter struct {
	writer *multipart.Writer
	err    error
}

func (fieldWriter *formWriter) text(name string, value string) {
	if fieldWriter.err != nil || value == "" {
		return
	}
	if writeErr := fieldWriter.writer.WriteField(name, value); writeErr != nil {
		fieldWriter.err = fmt.Errorf("write %s: %w", name, writeErr)
	}
}

func (fieldWriter *formWriter) integer(name string, value int64) {
	if fieldWriter.err != nil {
		return
	}
	if writeErr := fieldWriter.writer.WriteField(name, strconv.FormatInt(value, 10)); writeErr != nil {
		fieldWriter.err = fmt.Errorf("write %s: %w", name, writeErr)
	}
}

func (fieldWriter *formWriter) optionalInt(name string, value *int) {
	if value == nil {
		return
	}
	fieldWriter.integer(name, int64(*value))
}

func (fieldWriter *formWriter) attachment(attachment *Attachment) {
	if fieldWriter.err != nil || attachment == nil {
		return
	}

	fileName := attachment.Name
	if fileName == "" {
		fileName = defaultAttachmentName
	}
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = defaultAttachmentType
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldAttachment, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", contentType)

	partWriter, createErr := fieldWriter.writer.CreatePart(header)
	if createErr != nil {
		fieldWriter.err = fmt.Errorf("write %s: %w", FieldAttachment, createErr)
		return
	}
	if _, writeErr := partWriter.Write(attachment.Data); writeErr != nil {
		fieldWriter.err = fmt.Errorf("write %s: %w", FieldAttachment, writeErr)
	}
}
