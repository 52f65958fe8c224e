package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// ErrBusy is returned when a session is asked to validate while a run is in
// progress.
var ErrBusy = errors.New("a validation is already in progress")

// Validator runs one validation. *ValidateService implements it.
type Validator interface {
	Validate(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResult, error)
}

// NoticeLevel classifies a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a status message shown to the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

const (
	WaitMessage     = "Validating conversion... please wait."
	CompleteMessage = "Validation Completed"
	ErrorPrefix     = "Error during validation: "

	// RemoteFailureMessage replaces the provider's own error text on screen.
	RemoteFailureMessage = "the model service could not complete the request"
)

// UserMessage turns a validation error into the text shown to the user.
// Model failures are reduced to a fixed message and the HTTP status; local
// errors such as a missing credential are shown as is.
func UserMessage(err error) string {
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &remote):
		return fmt.Sprintf("%s%s (status %d)", ErrorPrefix, RemoteFailureMessage, remote.StatusCode)
	case errors.Is(err, domain.ErrRemote):
		return ErrorPrefix + RemoteFailureMessage
	default:
		return ErrorPrefix + err.Error()
	}
}

// Session is the presentation state of one user: the selected ETL kind, the
// two uploads and the outcome of the last run. It moves
// Idle → Validating → Completed, and back to Idle on failure or new input.
type Session struct {
	mu        sync.Mutex
	validator Validator
	onNotice  func(Notice)
	logger    *zap.Logger

	kind    domain.ETLKind
	etl     *domain.UploadedFile
	pyspark *domain.UploadedFile
	stage   domain.Stage
	result  *domain.ValidationResult
	notice  Notice
}

// NewSession creates an idle session. onNotice, if set, is called with every
// notice as it is raised, including the "please wait" notice. Failure details
// go to logger.
func NewSession(v Validator, onNotice func(Notice), logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		validator: v,
		onNotice:  onNotice,
		logger:    logger,
		kind:      domain.ETLKindInformatica,
		stage:     domain.StageIdle,
	}
}

func (s *Session) SetKind(k domain.ETLKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = k
	s.resetLocked()
}

func (s *Session) SetETL(f *domain.UploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f != nil {
		f.Role = domain.RoleETL
	}
	s.etl = f
	s.resetLocked()
}

func (s *Session) SetPySpark(f *domain.UploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f != nil {
		f.Role = domain.RolePySpark
	}
	s.pyspark = f
	s.resetLocked()
}

// new input invalidates a previous result
func (s *Session) resetLocked() {
	if s.stage == domain.StageCompleted {
		s.stage = domain.StageIdle
		s.result = nil
		s.notice = Notice{}
	}
}

// Validate runs the pipeline on the current uploads. With an upload missing
// it raises a warning, stays Idle and makes no remote call. On failure the
// session returns to Idle with an error notice and no result.
func (s *Session) Validate(ctx context.Context, opts domain.Options) (*domain.ValidationResult, error) {
	s.mu.Lock()
	if s.stage == domain.StageValidating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	req := domain.ValidationRequest{Kind: s.kind, ETL: s.etl, PySpark: s.pyspark, Options: opts}
	if !req.HasInputs() {
		s.stage = domain.StageIdle
		s.result = nil
		s.mu.Unlock()
		s.raise(Notice{Level: NoticeWarning, Message: domain.ErrMissingInput.Error()})
		return nil, domain.ErrMissingInput
	}
	s.stage = domain.StageValidating
	s.result = nil
	s.mu.Unlock()

	s.raise(Notice{Level: NoticeInfo, Message: WaitMessage})
	result, err := s.validator.Validate(ctx, req)

	s.mu.Lock()
	if err != nil {
		s.stage = domain.StageIdle
		s.mu.Unlock()
		s.logger.Error("validation failed", zap.Error(err))
		s.raise(Notice{Level: NoticeError, Message: UserMessage(err)})
		return nil, err
	}
	s.stage = domain.StageCompleted
	s.result = result
	s.mu.Unlock()
	s.raise(Notice{Level: NoticeSuccess, Message: CompleteMessage})
	return result, nil
}

func (s *Session) raise(n Notice) {
	s.mu.Lock()
	s.notice = n
	s.mu.Unlock()
	if s.onNotice != nil {
		s.onNotice(n)
	}
}

func (s *Session) Stage() domain.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Result returns the completed run, or nil outside the Completed stage.
func (s *Session) Result() *domain.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != domain.StageCompleted {
		return nil
	}
	return s.result
}

func (s *Session) Notice() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}
