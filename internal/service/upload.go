package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
	"berrypay/internal/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var allowedUploadTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"application/pdf",
}

type UploadService interface {
	Save(ctx context.Context, r io.Reader) (*dto.UploadResponse, error)
}

type uploadServiceImpl struct {
	dir      string
	maxBytes int64
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewUploadService(dir string, maxBytes int64, m *metrics.Metrics, logger *slog.Logger) UploadService {
	return &uploadServiceImpl{
		dir:      dir,
		maxBytes: maxBytes,
		metrics:  m,
		logger:   logger.With("component", "upload"),
	}
}

// Save stores r under a random name when its sniffed content type is an
// allowed image or PDF and it fits the size limit.
func (s *uploadServiceImpl) Save(_ context.Context, r io.Reader) (*dto.UploadResponse, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		s.count("too_large")
		return nil, apperror.Validation("file", fmt.Sprintf("Arquivo maior que %d MB", s.maxBytes/(1<<20)))
	}
	if len(data) == 0 {
		s.count("empty")
		return nil, apperror.Validation("file", "Arquivo vazio")
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedUploadTypes...) {
		s.count("rejected_type")
		return nil, apperror.Validation("file", "Tipo de arquivo não permitido")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	s.count("ok")
	s.logger.Info("file uploaded", "name", name, "mime", mt.String(), "size", len(data))
	return &dto.UploadResponse{
		URL:      "/uploads/" + name,
		Name:     name,
		MimeType: strings.SplitN(mt.String(), ";", 2)[0],
		Size:     int64(len(data)),
	}, nil
}

func (s *uploadServiceImpl) count(status string) {
	if s.metrics != nil {
		s.metrics.Uploads.WithLabelValues(status).Inc()
	}
}
