package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aurora-server/synthetic-generator/internal/config"
	"aurora-server/synthetic-generator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DalleModel:          "dall-e-3",
		ImageSavePath:       t.TempDir(),
		ImagePublicBaseURL:  "/uploads",
		ImageDownloadTimeout: 5 * time.Second,
	}
}

func TestService_DisabledWithoutCredentials(t *testing.T) {
	svc := NewService(testConfig(t), zap.NewNop())

	assert.False(t, svc.Enabled())

	_, err := svc.GenerateAvatar(context.Background(), &model.Persona{Username: "anyone"})
	assert.ErrorIs(t, err, ErrImageGenerationFailed)
}

func TestService_FallbackAvatarDeterministic(t *testing.T) {
	svc := NewService(testConfig(t), zap.NewNop())

	first := svc.FallbackAvatar("maria_runs")
	second := svc.FallbackAvatar("maria_runs")

	assert.Equal(t, first, second)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=maria_runs", first)
}

func TestService_FallbackAvatarEscapesSeed(t *testing.T) {
	svc := NewService(testConfig(t), zap.NewNop())

	ref := svc.FallbackAvatar("user with spaces")
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=user+with+spaces", ref)
}

func TestService_PersistDownloadsAndSaves(t *testing.T) {
	imageBody := []byte("png-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(imageBody)
	}))
	defer server.Close()

	cfg := testConfig(t)
	svc := NewService(cfg, zap.NewNop())

	ref, err := svc.Persist(context.Background(), server.URL, "synth-maria_runs")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/synth-maria_runs.png", ref)

	saved, err := os.ReadFile(filepath.Join(cfg.ImageSavePath, "synth-maria_runs.png"))
	require.NoError(t, err)
	assert.Equal(t, imageBody, saved)
}

func TestService_PersistNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(testConfig(t), zap.NewNop())

	_, err := svc.Persist(context.Background(), server.URL, "synth-missing")
	assert.ErrorIs(t, err, ErrImageDownloadFailed)
}

func TestService_PersistUnreachableHost(t *testing.T) {
	cfg := testConfig(t)
	cfg.ImageDownloadTimeout = 200 * time.Millisecond
	svc := NewService(cfg, zap.NewNop())

	_, err := svc.Persist(context.Background(), "http://127.0.0.1:1/image.png", "synth-nowhere")
	assert.ErrorIs(t, err, ErrImageDownloadFailed)
}
