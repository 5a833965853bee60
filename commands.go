package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/filecache/internal/cache"
	"github.com/any-hub/filecache/internal/config"
)

const usage = `usage: filecache [-config path] [-check-config] [-version] <command> [args]

commands:
  get <key>                 print the cached value as JSON
  set <key> <value> [ttl]   store a JSON value (plain text is stored as a string)
  delete <key>              remove a key from the cache
  path <key>                print the record location, size and age
  purge                     remove the whole cache directory`

// execute 分发具体命令，返回退出码：0 成功，1 失败或未命中，2 用法错误。
func execute(ctx context.Context, cfg *config.Config, logger *logrus.Logger, metrics *cache.Metrics, opts cliOptions) int {
	if opts.command == "purge" {
		if err := cache.DeleteCache(cfg.Cache.Directory); err != nil {
			fmt.Fprintf(stdErr, "清理缓存目录失败: %v\n", err)
			return 1
		}
		logger.WithFields(logrus.Fields{
			"action":    "purge",
			"directory": cfg.Cache.Directory,
		}).Info("缓存目录已删除")
		return 0
	}

	want, ok := commandArity[opts.command]
	if !ok {
		fmt.Fprintf(stdErr, "未知命令: %s\n%s\n", opts.command, usage)
		return 2
	}
	if len(opts.args) < want[0] || len(opts.args) > want[1] {
		fmt.Fprintf(stdErr, "%s 参数数量错误\n%s\n", opts.command, usage)
		return 2
	}

	cacheOpts, err := cacheOptions(cfg, logger, metrics)
	if err != nil {
		fmt.Fprintf(stdErr, "缓存配置无效: %v\n", err)
		return 1
	}
	c, err := cache.New[any](ctx, cacheOpts)
	if err != nil {
		fmt.Fprintf(stdErr, "打开缓存失败: %v\n", err)
		return 1
	}
	defer c.Close()

	key := opts.args[0]
	switch opts.command {
	case "get":
		return runGet(ctx, c, key)
	case "set":
		return runSet(ctx, c, key, opts.args[1:])
	case "delete":
		if err := c.Delete(ctx, key); err != nil {
			fmt.Fprintf(stdErr, "删除失败: %v\n", err)
			return 1
		}
		return 0
	default:
		return runPath(c, key)
	}
}

// commandArity 记录每个命令允许的参数个数区间 [min, max]。
var commandArity = map[string][2]int{
	"get":    {1, 1},
	"set":    {2, 3},
	"delete": {1, 1},
	"path":   {1, 1},
}

func runGet(ctx context.Context, c *cache.Cache[any], key string) int {
	value, ok := c.Get(ctx, key)
	if !ok {
		fmt.Fprintf(stdErr, "未命中: %s\n", key)
		return 1
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintf(stdErr, "编码失败: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdOut, string(encoded))
	return 0
}

func runSet(ctx context.Context, c *cache.Cache[any], key string, args []string) int {
	value := parseValue(args[0])

	ttl := c.DefaultTTL()
	if len(args) == 2 {
		parsed, err := time.ParseDuration(args[1])
		if err != nil {
			fmt.Fprintf(stdErr, "无法解析 TTL: %v\n", err)
			return 2
		}
		ttl = parsed
	}

	if err := c.SetWithTTL(ctx, key, value, ttl); err != nil {
		fmt.Fprintf(stdErr, "写入失败: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdOut, "%s expires %s\n", key, humanize.Time(time.Now().Add(ttl)))
	return 0
}

func runPath(c *cache.Cache[any], key string) int {
	path := c.Path(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stdOut, "%s (absent)\n", path)
			return 0
		}
		fmt.Fprintf(stdErr, "读取记录信息失败: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdOut, "%s %s written %s\n", path, humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
	return 0
}

// parseValue 优先把参数当作 JSON，失败时按原始字符串存储。
func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
