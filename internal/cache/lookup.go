package cache

import "errors"

// lookupStatus 描述一次取值的来源或失败原因。
type lookupStatus int

const (
	lookupMemory lookupStatus = iota
	lookupDisk
	lookupMissing
	lookupIOError
	lookupCorrupt
)

func (s lookupStatus) String() string {
	switch s {
	case lookupMemory:
		return "memory"
	case lookupDisk:
		return "disk"
	case lookupMissing:
		return "missing"
	case lookupIOError:
		return "io_error"
	case lookupCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// lookupResult 是持久层读取的显式结果；Get 只看 found，其余状态仅用于日志和指标。
type lookupResult[V any] struct {
	status lookupStatus
	entry  Entry[V]
	err    error
}

func (r lookupResult[V]) found() bool {
	return r.status == lookupMemory || r.status == lookupDisk
}

func readFailure[V any](err error) lookupResult[V] {
	if errors.Is(err, ErrNotFound) {
		return lookupResult[V]{status: lookupMissing, err: err}
	}
	return lookupResult[V]{status: lookupIOError, err: err}
}
