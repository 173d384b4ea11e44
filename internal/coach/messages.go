package coach

import "fmt"

// Fixed user-facing sentences. Every failure in the answer pipeline resolves
// to exactly one of these; nothing else ever reaches the user.
const (
	MsgUnsupportedType   = "Unsupported file type. Please upload PDF or TXT."
	MsgEmptyDocument     = "This file is empty, no analysis possible."
	MsgCorrupted         = "This file is corrupted and cannot be read."
	MsgNoExtractableText = "I couldn't find searchable text in this document. If it's a scanned/image-only PDF, text extraction isn't supported."
	MsgTransportFailure  = "I couldn't download the file. Please re-upload and try again."
	MsgIngestionFailure  = "There was a problem processing this file. Please try another file."
	MsgNoPriorUpload     = "Please upload a PDF or TXT to start a new session."
	MsgUpstreamFailure   = "Sorry, the analysis took too long or failed. Please try again."

	msgInternal = "Sorry, something went wrong. Please try again."
)

// TooLargeMessage renders the size-ceiling rejection for the configured
// maximum.
func TooLargeMessage(maxMB int) string {
	return fmt.Sprintf("File too large. Please keep under %d MB.", maxMB)
}
