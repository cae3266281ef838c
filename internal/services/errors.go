package services

import "errors"

// Error kinds. Concrete errors wrap one of these, test with errors.Is.
var (
	ErrReportNotFound = errors.New("report not found")
	ErrStorage        = errors.New("storage failure")
	ErrClassification = errors.New("classification failure")
	ErrTransport      = errors.New("transport failure")
	ErrInvalidInput   = errors.New("invalid input")
)

// Kind names the error kind of err for API responses and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrReportNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrClassification):
		return "classification"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStorage):
		return "storage"
	}
	return "internal"
}
