package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput means the ETL file or the PySpark file was not supplied.
	ErrMissingInput = errors.New("please upload both an ETL file (Informatica/Datastage) and a PySpark file")

	// ErrUnsupportedFile means an upload has an extension not accepted for its role.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrRemote wraps every failure of the remote model call.
	ErrRemote = errors.New("model request failed")

	// ErrConfig means the configuration or credential is unusable.
	ErrConfig = errors.New("invalid configuration")
)

// RemoteError is a rejection reported by the model endpoint. Detail carries
// the provider's own message and belongs in logs, not in user-facing text.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrRemote, e.StatusCode, e.Detail)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }
