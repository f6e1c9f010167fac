package validator

// MaxQuestionLength is the longest chat question accepted, in characters.
const MaxQuestionLength = 500

// RequestValidator checks uploads, which arrive as multipart forms rather than tagged structs.
// Document type is decided later by content sniffing.
type RequestValidator struct{}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

func (v *RequestValidator) ValidateUpload(name string, size, maxBytes int64) ValidationErrors {
	var errs ValidationErrors

	if name == "" {
		return append(errs, ValidationError{Field: "file", Message: "is required", Rule: "required"})
	}
	if size == 0 {
		errs = append(errs, ValidationError{Field: "file", Message: "must not be empty", Rule: "non_empty", Value: name})
	}
	if maxBytes > 0 && size > maxBytes {
		errs = append(errs, ValidationError{Field: "file", Message: "exceeds the upload size limit", Rule: "max_size", Value: size})
	}
	return errs
}
