package root

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zootopia/internal/apperrors"
)

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ZOO_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("ZOO_DB_PATH", filepath.Join(dir, "zoo.db"))
	t.Setenv("ZOO_REMOTE_URL", "")
	t.Setenv("ZOO_LLM_ENDPOINT", "")
	t.Setenv("ZOO_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

var idPattern = regexp.MustCompile(`id=(\S+)`)

func TestTaskLifecycleCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "add", "泡个热水澡", "--zone", "self-care")
	require.NoError(t, err)
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	out, err = run(t, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "泡个热水澡")

	out, err = run(t, "do", id)
	require.NoError(t, err)
	assert.Contains(t, out, "+10 xp")

	out, err = run(t, "do", id)
	require.NoError(t, err)
	assert.Contains(t, out, "already completed")

	out, err = run(t, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "泡个热水澡")

	out, err = run(t, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "(no tasks)")

	out, err = run(t, "tasks", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "done, deleted")

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "小猫咪")
	assert.Contains(t, out, "0 open, 1 done, 1 deleted (1 total)")
}

func TestAddRejectsBadZone(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "add", "x", "--zone", "garage")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUnlockShowsRewardOnce(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "unlock", "deer")
	require.NoError(t, err)
	assert.Contains(t, out, "joined your zoo!")
	assert.Contains(t, out, "The Vital Spirit")

	out, err = run(t, "unlock", "deer")
	require.NoError(t, err)
	assert.Contains(t, out, "already in your zoo")
	assert.NotContains(t, out, "The Vital Spirit")

	_, err = run(t, "unlock", "dragon")
	assert.Error(t, err)
}

func TestMoodAndChatCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "mood", "set", "rainy")
	require.NoError(t, err)
	assert.Contains(t, out, "rainy")

	_, err = run(t, "mood", "set", "foggy")
	assert.Error(t, err)

	out, err = run(t, "chat", "cat", "今天有点累")
	require.NoError(t, err)
	assert.Contains(t, out, "offline reply")

	out, err = run(t, "chat", "cat", "--history", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "今天有点累")

	_, err = run(t, "config", "set", "--endpoint", "https://api.example.com")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = run(t, "config", "set", "--endpoint", "https://api.example.com", "--key", "sk-abcdef", "--model", "m")
	require.NoError(t, err)
	out, err = run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "****cdef")
}

func TestConfigTestCommand(t *testing.T) {
	setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()

	_, err := run(t, "config", "set", "--endpoint", srv.URL+"/v1/chat/completions", "--key", "sk-bad", "--model", "m")
	require.NoError(t, err)

	_, err = run(t, "config", "test")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)

	out, err := run(t, "config", "test", "--key", "sk-good")
	require.NoError(t, err)
	assert.Contains(t, out, "connection ok")

	out, err = run(t, "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "good")
}
