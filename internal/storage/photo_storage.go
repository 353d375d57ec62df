package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrFileTooLarge возвращается, когда загрузка превышает лимит.
var ErrFileTooLarge = errors.New("storage: file exceeds upload limit")

var unsafeSegment = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// PhotoStorage хранит аватары участников команды на диске.
// Файлы раскладываются по каталогам владельцев и отдаются статикой по префиксу /media.
type PhotoStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewPhotoStorage создаёт файловое хранилище.
func NewPhotoStorage(rootPath string, maxUploadMB int64) (*PhotoStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &PhotoStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root возвращает корневой каталог (для раздачи статики).
func (s *PhotoStorage) Root() string {
	return s.rootPath
}

// MaxUploadBytes возвращает лимит размера одного файла.
func (s *PhotoStorage) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Save сохраняет файл и возвращает путь относительно корня хранилища (со слешами).
// ext расширение с точкой, определённое по содержимому файла.
func (s *PhotoStorage) Save(ctx context.Context, owner, ext string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	ownerDir := ownerSegment(owner)
	fileName := fmt.Sprintf("%s_%d%s", ownerDir, time.Now().UnixNano(), sanitizeExt(ext))

	userDir := filepath.Join(s.rootPath, ownerDir)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	targetPath := filepath.Join(userDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limitedReader := io.LimitedReader{R: r, N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limitedReader)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = f.Close()
		_ = os.Remove(tempPath)
		return "", 0, ErrFileTooLarge
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return ownerDir + "/" + fileName, written, nil
}

// Delete удаляет файл из хранилища. Путь вне корня игнорируется.
func (s *PhotoStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(filepath.FromSlash(relativePath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil
	}

	target := filepath.Join(s.rootPath, clean)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// ownerSegment превращает непрозрачный идентификатор пользователя в безопасное имя каталога.
func ownerSegment(owner string) string {
	seg := unsafeSegment.ReplaceAllString(owner, "_")
	if seg == "" {
		seg = "anonymous"
	}
	return seg
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ext = unsafeSegment.ReplaceAllString(ext, "")
	if ext == "" {
		return ""
	}
	return "." + ext
}
