package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etlvalidator/etlvalidator/internal/adapters/inbound/cli"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

type discard struct{ bytes.Buffer }

const modelReport = `✅ Correct Parts
- Source qualifier matches the read
⚠️ Potential Issues
- Decimal precision may differ
❌ Missing Logic
- Lookup on dim_customer is missing
💡 Suggested Improvements
- Cache the joined frame`

// fakeOpenAI answers validation prompts with modelReport and correction
// prompts (those with a system message) with fenced code.
func fakeOpenAI(t *testing.T, status int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
			return
		}
		content := modelReport
		if len(req.Messages) > 0 && req.Messages[0].Role == "system" {
			content = "```python\ndf = spark.table('orders')\n```"
		}
		data, _ := json.Marshal(content)
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, data)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func setupProject(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("llm:\n  base_url: %s\noutput_dir: out\n", baseURL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".etlvalidator.yaml"), []byte(cfg), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m_orders.xml"), []byte(`<MAPPING NAME="m_orders"/>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.py"), []byte("df = spark.read.csv('orders')\n"), 0644))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmdForTest()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand_JSON(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv, calls := fakeOpenAI(t, http.StatusOK)
	dir := setupProject(t, srv.URL)

	stdout, stderr, err := runCLI(t, "validate", "--path", dir,
		"--etl", filepath.Join(dir, "m_orders.xml"),
		"--pyspark", filepath.Join(dir, "orders.py"),
		"--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "please wait")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))

	var out struct {
		Result *domain.ValidationResult `json:"result"`
		Files  []string                 `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, []string{"Lookup on dim_customer is missing"},
		out.Result.Sections.Items(domain.CategoryMissingLogic))
	assert.Equal(t, "df = spark.table('orders')", out.Result.CorrectedCode)

	for _, name := range []string{domain.PDFFileName, domain.DocxFileName, domain.CorrectedFileName} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	hist, _, err := runCLI(t, "history", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, hist, out.Result.RunID)
	assert.Contains(t, hist, "m_orders.xml")
}

func TestValidateCommand_TUIWithoutCorrection(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv, calls := fakeOpenAI(t, http.StatusOK)
	dir := setupProject(t, srv.URL)

	stdout, _, err := runCLI(t, "validate", "--path", dir, "--kind", "Informatica",
		"--etl", filepath.Join(dir, "m_orders.xml"),
		"--pyspark", filepath.Join(dir, "orders.py"),
		"--correct=false", "--out", filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Contains(t, stdout, "Missing Logic")
	assert.Contains(t, stdout, "Cache the joined frame")
	assert.Contains(t, stdout, "Validation_Report.pdf")
	assert.NoFileExists(t, filepath.Join(dir, "reports", domain.CorrectedFileName))
}

func TestValidateCommand_MissingInputMakesNoCall(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ETLVALIDATOR_API_KEY", "")
	srv, calls := fakeOpenAI(t, http.StatusOK)
	dir := setupProject(t, srv.URL)

	_, _, err := runCLI(t, "validate", "--path", dir, "--etl", filepath.Join(dir, "m_orders.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	assert.Zero(t, atomic.LoadInt32(calls))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestValidateCommand_RemoteFailure(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv, calls := fakeOpenAI(t, http.StatusServiceUnavailable)
	dir := setupProject(t, srv.URL)

	_, _, err := runCLI(t, "validate", "--path", dir,
		"--etl", filepath.Join(dir, "m_orders.xml"),
		"--pyspark", filepath.Join(dir, "orders.py"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestValidateCommand_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ETLVALIDATOR_API_KEY", "")
	srv, _ := fakeOpenAI(t, http.StatusOK)
	dir := setupProject(t, srv.URL)

	_, _, err := runCLI(t, "validate", "--path", dir,
		"--etl", filepath.Join(dir, "m_orders.xml"),
		"--pyspark", filepath.Join(dir, "orders.py"))
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestValidateCommand_BadKind(t *testing.T) {
	_, _, err := runCLI(t, "validate", "--path", t.TempDir(), "--kind", "ssis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ETL kind")
}

func TestHistoryCommand_Empty(t *testing.T) {
	stdout, _, err := runCLI(t, "history", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No validation history found.")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "etlvalidator dev")
}

func TestValidateCommand_HistoryRecordsPySparkRepositoryCommit(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv, _ := fakeOpenAI(t, http.StatusOK)
	dir := setupProject(t, srv.URL)

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	jobs := filepath.Join(repoDir, "jobs")
	require.NoError(t, os.MkdirAll(jobs, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(jobs, "orders.py"), []byte("df = spark.read.csv('orders')\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("jobs/orders.py")
	require.NoError(t, err)
	head, err := wt.Commit("add orders job", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)

	_, _, err = runCLI(t, "validate", "--path", dir, "--correct=false", "--json",
		"--etl", filepath.Join(dir, "m_orders.xml"),
		"--pyspark", filepath.Join(jobs, "orders.py"))
	require.NoError(t, err)

	hist, _, err := runCLI(t, "history", dir, "--json")
	require.NoError(t, err)
	var entries []domain.RunEntry
	require.NoError(t, json.Unmarshal([]byte(hist), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, head.String(), entries[0].CommitHash)
}
