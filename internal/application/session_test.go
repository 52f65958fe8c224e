package application_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

type noticeLog struct {
	mu      sync.Mutex
	notices []application.Notice
}

func (l *noticeLog) add(n application.Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func TestSession_StartsIdle(t *testing.T) {
	s := application.NewSession(newService(&stubLLM{}, nil), nil, nil)
	assert.Equal(t, domain.StageIdle, s.Stage())
	assert.Nil(t, s.Result())
}

func TestSession_MissingInputWarns(t *testing.T) {
	llm := &stubLLM{}
	log := &noticeLog{}
	s := application.NewSession(newService(llm, nil), log.add, nil)
	s.SetETL(etlFile())

	res, err := s.Validate(context.Background(), domain.Options{})
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	assert.Nil(t, res)
	assert.Equal(t, domain.StageIdle, s.Stage())
	assert.Equal(t, application.NoticeWarning, s.Notice().Level)
	assert.Equal(t, domain.ErrMissingInput.Error(), s.Notice().Message)
	assert.Zero(t, llm.callCount())
}

func TestSession_Completes(t *testing.T) {
	llm := &stubLLM{responses: []string{sampleReport, "x = 1"}}
	log := &noticeLog{}
	s := application.NewSession(newService(llm, nil), log.add, nil)
	s.SetKind(domain.ETLKindDatastage)
	s.SetETL(domain.NewUploadedFile("orders.dsx", "", []byte("job")))
	s.SetPySpark(domain.NewUploadedFile("orders.py", "", []byte("df = 1")))

	res, err := s.Validate(context.Background(), domain.Options{GenerateCorrection: true})
	require.NoError(t, err)

	assert.Equal(t, domain.StageCompleted, s.Stage())
	assert.Same(t, res, s.Result())
	assert.Equal(t, domain.ETLKindDatastage, res.Kind)
	assert.Equal(t, "x = 1", res.CorrectedCode)

	require.Len(t, log.notices, 2)
	assert.Equal(t, application.WaitMessage, log.notices[0].Message)
	assert.Equal(t, application.NoticeSuccess, log.notices[1].Level)
}

func TestSession_RemoteFailureReturnsToIdle(t *testing.T) {
	llm := &stubLLM{failOn: 1}
	s := application.NewSession(newService(llm, nil), nil, nil)
	s.SetETL(etlFile())
	s.SetPySpark(pysparkFile())

	res, err := s.Validate(context.Background(), domain.Options{GenerateCorrection: true})
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Nil(t, res)
	assert.Equal(t, domain.StageIdle, s.Stage())
	assert.Nil(t, s.Result())
	assert.Equal(t, application.NoticeError, s.Notice().Level)
	assert.Contains(t, s.Notice().Message, application.ErrorPrefix)
	assert.Equal(t, 1, llm.callCount())
}

func TestSession_NewUploadClearsResult(t *testing.T) {
	llm := &stubLLM{responses: []string{sampleReport}}
	s := application.NewSession(newService(llm, nil), nil, nil)
	s.SetETL(etlFile())
	s.SetPySpark(pysparkFile())

	_, err := s.Validate(context.Background(), domain.Options{})
	require.NoError(t, err)
	require.NotNil(t, s.Result())

	s.SetPySpark(domain.NewUploadedFile("orders_v2.py", "", []byte("df = 2")))
	assert.Equal(t, domain.StageIdle, s.Stage())
	assert.Nil(t, s.Result())
}

func TestSession_BusyWhileValidating(t *testing.T) {
	llm := &stubLLM{responses: []string{sampleReport}, block: make(chan struct{})}
	waiting := make(chan struct{})
	var once sync.Once
	s := application.NewSession(newService(llm, nil), func(n application.Notice) {
		if n.Message == application.WaitMessage {
			once.Do(func() { close(waiting) })
		}
	}, nil)
	s.SetETL(etlFile())
	s.SetPySpark(pysparkFile())

	done := make(chan error, 1)
	go func() {
		_, err := s.Validate(context.Background(), domain.Options{})
		done <- err
	}()

	<-waiting
	assert.Equal(t, domain.StageValidating, s.Stage())
	_, err := s.Validate(context.Background(), domain.Options{})
	assert.ErrorIs(t, err, application.ErrBusy)

	close(llm.block)
	require.NoError(t, <-done)
	assert.Equal(t, domain.StageCompleted, s.Stage())
}

func TestSession_RemoteFailureHidesProviderDetail(t *testing.T) {
	v := failingValidator{err: fmt.Errorf("validation request: %w",
		&domain.RemoteError{StatusCode: 401, Detail: "Incorrect API key provided: sk-live-1234"})}
	s := application.NewSession(v, nil, nil)
	s.SetETL(etlFile())
	s.SetPySpark(pysparkFile())

	_, err := s.Validate(context.Background(), domain.Options{})
	require.Error(t, err)

	msg := s.Notice().Message
	assert.Equal(t, application.ErrorPrefix+application.RemoteFailureMessage+" (status 401)", msg)
	assert.NotContains(t, msg, "sk-live")
}

func TestUserMessage(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"remote with status": {
			err:  &domain.RemoteError{StatusCode: 503, Detail: "overloaded"},
			want: application.ErrorPrefix + application.RemoteFailureMessage + " (status 503)",
		},
		"remote transport": {
			err:  fmt.Errorf("%w: dial tcp: connection refused", domain.ErrRemote),
			want: application.ErrorPrefix + application.RemoteFailureMessage,
		},
		"local": {
			err:  fmt.Errorf("%w: no API key for provider \"openai\"", domain.ErrConfig),
			want: application.ErrorPrefix + `invalid configuration: no API key for provider "openai"`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, application.UserMessage(tc.err))
		})
	}
}
