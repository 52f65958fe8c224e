package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// stubLLM answers prompts from a fixed script and records every call.
type stubLLM struct {
	mu        sync.Mutex
	responses []string
	failOn    int // 1-based call number that fails; 0 never fails
	calls     []domain.Prompt
	block     chan struct{}
}

func (s *stubLLM) Complete(ctx context.Context, p domain.Prompt) (string, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, p)
	n := len(s.calls)
	if n == s.failOn {
		return "", fmt.Errorf("%w: status 500: upstream exploded", domain.ErrRemote)
	}
	if n > len(s.responses) {
		return "", errors.New("unexpected call")
	}
	return s.responses[n-1], nil
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type failingValidator struct{ err error }

func (v failingValidator) Validate(context.Context, domain.ValidationRequest) (*domain.ValidationResult, error) {
	return nil, v.err
}

type memHistory struct {
	entries []domain.RunEntry
	err     error
}

func (h *memHistory) Save(_ string, e domain.RunEntry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, e)
	return nil
}

func (h *memHistory) Load(string) ([]domain.RunEntry, error) {
	return h.entries, nil
}

// fixedGit treats every path as one repository at hash, except the
// directories in repos, which carry their own commit.
type fixedGit struct {
	hash  string
	repos map[string]string
}

func (g fixedGit) IsGitRepo(path string) bool {
	if _, ok := g.repos[path]; ok {
		return true
	}
	return g.hash != ""
}

func (g fixedGit) CommitHash(path string) (string, error) {
	if h, ok := g.repos[path]; ok {
		return h, nil
	}
	if g.hash == "" {
		return "", errors.New("not a git repo")
	}
	return g.hash, nil
}

const sampleReport = `Here is the review.
✅ Correct Parts
- Source read matches SQ_orders
- Filter on status is preserved
⚠️ Potential Issues
- Decimal precision may differ
❌ Missing Logic
- Lookup on dim_customer is missing
💡 Suggested Improvements
• Cache the joined frame
`

func etlFile() *domain.UploadedFile {
	return domain.NewUploadedFile("m_orders.xml", domain.RoleETL, []byte("<MAPPING NAME=\"m_orders\"/>"))
}

func pysparkFile() *domain.UploadedFile {
	return domain.NewUploadedFile("orders.py", domain.RolePySpark, []byte("df = spark.read.csv('orders')\n"))
}
