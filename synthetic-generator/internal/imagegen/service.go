package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"aurora-server/synthetic-generator/internal/config"
	"aurora-server/synthetic-generator/internal/model"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrImageGenerationFailed - ошибка при генерации изображения DALL-E.
var ErrImageGenerationFailed = errors.New("image generation failed")

// ErrImageDownloadFailed - ошибка при скачивании сгенерированного изображения.
var ErrImageDownloadFailed = errors.New("image download failed")

// ErrImageSaveFailed - ошибка при сохранении файла.
var ErrImageSaveFailed = errors.New("image save failed")

const fallbackAvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// Service generates, persists and falls back profile pictures. There is no
// retry or provider chain here: callers apply a coarser fallback (FallbackAvatar)
// on any failure instead.
type Service interface {
	// Enabled reports whether the image provider has credentials.
	Enabled() bool

	// GenerateAvatar makes one image-generation call and returns the temporary
	// external URL of the result.
	GenerateAvatar(ctx context.Context, persona *model.Persona) (string, error)

	// Persist downloads the image and stores it locally, returning the public
	// reference for the stored file.
	Persist(ctx context.Context, imageURL, filename string) (string, error)

	// FallbackAvatar returns a deterministic avatar reference derived from the
	// username. Pure: no network call, same input always yields the same output.
	FallbackAvatar(username string) string
}

type dalleService struct {
	client     *openaigo.Client
	model      string
	enabled    bool
	httpClient *http.Client
	savePath   string
	baseURL    string
	logger     *zap.Logger
}

// NewService creates the DALL-E-backed image service. A service without
// credentials is still usable: Enabled reports false and FallbackAvatar works.
func NewService(cfg *config.Config, logger *zap.Logger) Service {
	s := &dalleService{
		model:      cfg.DalleModel,
		enabled:    cfg.OpenAIAPIKey != "",
		httpClient: &http.Client{Timeout: cfg.ImageDownloadTimeout},
		savePath:   cfg.ImageSavePath,
		baseURL:    cfg.ImagePublicBaseURL,
		logger:     logger.Named("ImageService"),
	}
	if s.enabled {
		s.client = openaigo.NewClient(cfg.OpenAIAPIKey)
	}
	return s
}

func (s *dalleService) Enabled() bool { return s.enabled }

func (s *dalleService) GenerateAvatar(ctx context.Context, persona *model.Persona) (string, error) {
	if !s.enabled {
		return "", fmt.Errorf("%w: image provider is not configured", ErrImageGenerationFailed)
	}

	prompt := fmt.Sprintf(
		"Professional social media profile photo of a %d-year-old %s. %s. "+
			"Photorealistic headshot, warm natural lighting, neutral background, high quality portrait photography. "+
			"The person has a %s expression.",
		persona.Age, persona.Gender, persona.Appearance, persona.Personality,
	)

	log := s.logger.With(zap.String("username", persona.Username))
	log.Info("Generating profile picture...", zap.String("model", s.model))

	start := time.Now()
	resp, err := s.client.CreateImage(ctx, openaigo.ImageRequest{
		Model:   s.model,
		Prompt:  prompt,
		N:       1,
		Size:    openaigo.CreateImageSize1024x1024,
		Quality: openaigo.CreateImageQualityStandard,
	})
	if err != nil {
		log.Warn("DALL-E call failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("%w: %v", ErrImageGenerationFailed, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		log.Warn("DALL-E returned no image data")
		return "", fmt.Errorf("%w: empty response", ErrImageGenerationFailed)
	}

	log.Info("Profile picture generated", zap.Duration("duration", time.Since(start)))
	return resp.Data[0].URL, nil
}

func (s *dalleService) Persist(ctx context.Context, imageURL, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrImageDownloadFailed, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Image download returned non-OK status",
			zap.Int("status", resp.StatusCode), zap.String("url", imageURL))
		return "", fmt.Errorf("%w: status %d", ErrImageDownloadFailed, resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read body: %v", ErrImageDownloadFailed, err)
	}

	if err := os.MkdirAll(s.savePath, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageSaveFailed, err)
	}
	fileName := filename + ".png"
	filePath := filepath.Join(s.savePath, fileName)
	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		s.logger.Error("Failed to save image to file", zap.String("path", filePath), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrImageSaveFailed, err)
	}

	s.logger.Info("Image saved", zap.String("path", filePath), zap.Int("sizeBytes", len(imageData)))
	return s.baseURL + "/" + fileName, nil
}

func (s *dalleService) FallbackAvatar(username string) string {
	return fallbackAvatarBaseURL + "?seed=" + url.QueryEscape(username)
}
