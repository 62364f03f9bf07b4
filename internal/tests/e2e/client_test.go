package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type response struct {
	Status int
	Body   map[string]any
	Raw    string
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r response) list() []any {
	l, _ := r.Body["data"].([]any)
	return l
}

func (r response) detail() string {
	d, _ := r.Body["detail"].(string)
	return d
}

func (s *TestSuite) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{Status: resp.StatusCode, Raw: string(raw)}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out.Body)
	}
	return out
}

// register creates an account through the API and verifies it with the
// token echoed in debug mode.
func (s *TestSuite) register(t *testing.T, email, password string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)

	token, _ := resp.data()["verification"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	verified := s.do(t, http.MethodGet, "/auth/verify?token="+token, "", nil)
	require.Equal(t, http.StatusOK, verified.Status, verified.Raw)
}

func (s *TestSuite) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	token, _ := resp.data()["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *TestSuite) postJob(t *testing.T, token string, job map[string]any) uint {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/jobs/", token, job)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	return idOf(t, resp.data())
}

func (s *TestSuite) apply(t *testing.T, token string, jobID uint, coverLetter string) response {
	t.Helper()
	return s.do(t, http.MethodPost, "/applications/", token, map[string]any{
		"job":          jobID,
		"cover_letter": coverLetter,
	})
}

func idOf(t *testing.T, m map[string]any) uint {
	t.Helper()
	id, ok := m["id"].(float64)
	require.True(t, ok, "missing id in %v", m)
	return uint(id)
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func messages(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			msg, _ := m["message"].(string)
			out = append(out, msg)
		}
	}
	return out
}
