// Package attachments reads local image files for upload with a Pushover
// message. It accepts CLI-friendly "path::mime/type" specifiers, infers MIME
// types when none is given, and enforces the API's attachment size limit.
package attachments
