package response

import (
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps an error message in an error envelope
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError maps a service error to its envelope using the apperror
// classification. Handlers respond with (FromError(err)).StatusCode.
func FromError(err error) Response {
	return Error(apperror.HTTPStatus(err), err.Error())
}

// Paged wraps a list payload together with pagination metadata.
func Paged(items interface{}, total int64, page, limit int) map[string]interface{} {
	return map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
