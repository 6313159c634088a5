package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Tsukikage7/go-sugar/logger"
)

// FileSystemStorage 本地文件系统存储.
type FileSystemStorage struct {
	root string
	opts *options
}

// NewFileSystemStorage 创建以 root 为根目录的本地存储.
func NewFileSystemStorage(root string, opts ...Option) *FileSystemStorage {
	return &FileSystemStorage{
		root: root,
		opts: applyOptions(opts),
	}
}

// Root 返回根目录.
func (s *FileSystemStorage) Root() string {
	return s.root
}

// Path 返回文件的本地路径.
func (s *FileSystemStorage) Path(name string) (string, error) {
	clean, err := validName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Save 保存文件，同名文件存在时自动改名.
func (s *FileSystemStorage) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	name, err := validName(s.opts.policy.Name(name))
	if err != nil {
		return "", err
	}
	name, err = availableName(ctx, name, s.Exists)
	if err != nil {
		return "", err
	}

	full, _ := s.Path(name)
	log := s.opts.logger.WithContext(ctx).With(logger.String("name", name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		log.With(logger.Err(err)).Error("[Storage] 创建目录失败")
		return "", fmt.Errorf("storage: 创建目录失败: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		log.With(logger.Err(err)).Error("[Storage] 创建文件失败")
		return "", fmt.Errorf("storage: 创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		log.With(logger.Err(err)).Error("[Storage] 写入文件失败")
		return "", fmt.Errorf("storage: 写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage: 写入文件失败: %w", err)
	}

	log.Debug("[Storage] 文件已保存")
	return name, nil
}

// Open 打开文件.
func (s *FileSystemStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	full, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete 删除文件.
func (s *FileSystemStorage) Delete(_ context.Context, name string) error {
	full, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists 判断文件是否存在.
func (s *FileSystemStorage) Exists(_ context.Context, name string) (bool, error) {
	full, err := s.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
