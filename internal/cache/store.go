package cache

import (
	"context"
	"errors"
)

// Store 负责持久层记录的读写。磁盘布局为单层目录：
//
//	<Directory>/<hex(hash(key))>    # 编码后的 {data, expires}
//
// 记录名由 Cache 计算，Store 只关心字节内容，不理解记录格式。
type Store interface {
	// Read 返回记录的完整内容。记录不存在或是目录时返回 ErrNotFound。
	Read(ctx context.Context, name string) ([]byte, error)

	// Write 覆盖写入记录。实现需通过临时文件 + rename 保证读者看不到半写入的内容，
	// 并在失败时清理临时文件。
	Write(ctx context.Context, name string, payload []byte) error

	// Remove 递归删除记录，记录不存在时不视为错误。
	Remove(ctx context.Context, name string) error

	// Root 返回记录所在目录的绝对路径。
	Root() string
}

// ErrNotFound 表示持久层记录不存在。
var ErrNotFound = errors.New("cache record not found")

// ErrInvalidDirectory 表示缓存目录为空或无法解析。
var ErrInvalidDirectory = errors.New("cache directory required")
