package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusBadGateway     = http.StatusBadGateway
	ErrStatusGatewayTimeout = http.StatusGatewayTimeout
)

var (
	ErrInternalServer        = errors.New("Internal server error")
	ErrClient                = errors.New("Bad request")
	ErrValidation            = errors.New("All product fields must be provided")
	ErrNotFound              = errors.New("Resource not found")
	ErrConflict              = errors.New("Conflicting record found")
	ErrNotAnImage            = errors.New("Uploaded file is not an image")
	ErrImageDecode           = errors.New("Stored image could not be decoded")
	ErrClassification        = errors.New("Image classification failed")
	ErrClassificationTimeout = errors.New("Image classification timed out")
)

var errorMap = map[error]int{
	ErrInternalServer:        ErrStatusInternalServer,
	ErrClient:                ErrStatusClient,
	ErrValidation:            ErrStatusClient,
	ErrNotFound:              ErrStatusNotFound,
	ErrConflict:              ErrStatusConflict,
	ErrNotAnImage:            ErrStatusClient,
	ErrImageDecode:           ErrStatusInternalServer,
	ErrClassification:        ErrStatusBadGateway,
	ErrClassificationTimeout: ErrStatusGatewayTimeout,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
