package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chat_console/internal/config"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"

	"github.com/google/uuid"
)

// MediaService сохраняет вложения на статическом файловом хосте
// и возвращает относительный локатор вида /uploads/<имя>.
type MediaService interface {
	Store(ctx context.Context, filename string, data io.Reader) (string, error)
}

type mediaService struct {
	cfg config.UploadsConfig
	log logger.Logger
}

func NewMediaService(cfg config.UploadsConfig, log logger.Logger) MediaService {
	return &mediaService{cfg: cfg, log: log}
}

func (s *mediaService) Store(ctx context.Context, filename string, data io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		s.log.Error("Failed to create uploads directory", "error", err, "dir", s.cfg.Dir)
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Имя генерируем сами, расширение сохраняем из исходного файла
	ext := filepath.Ext(filename)
	generated := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.cfg.Dir, generated))
	if err != nil {
		s.log.Error("Failed to create upload file", "error", err, "filename", generated)
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		s.log.Error("Failed to write upload file", "error", err, "filename", generated)
		os.Remove(dst.Name())
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	locator := strings.TrimSuffix(s.cfg.PublicPath, "/") + "/" + generated
	return locator, nil
}
