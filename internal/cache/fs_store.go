package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NewStore 以 basePath 为根目录构建磁盘存储，目录及缺失的父目录会被创建。
func NewStore(basePath string) (Store, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, ErrInvalidDirectory
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &fileStore{basePath: abs}, nil
}

// fileStore 不对同名记录的并发写入加锁，最后完成 rename 的写入者胜出。
type fileStore struct {
	basePath string
}

func (s *fileStore) Root() string {
	return s.basePath
}

func (s *fileStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath, err := s.recordPath(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	payload, err := os.ReadFile(filePath)
	if err != nil {
		// 记录可能在 Stat 与读取之间被删除。
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (s *fileStore) Write(ctx context.Context, name string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filePath, err := s.recordPath(name)
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(s.basePath, ".record-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(payload)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func (s *fileStore) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filePath, err := s.recordPath(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(filePath)
}

func (s *fileStore) recordPath(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid record name %q", name)
	}
	return filepath.Join(s.basePath, name), nil
}
