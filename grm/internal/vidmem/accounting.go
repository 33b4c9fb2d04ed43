// Package vidmem tracks how much memory has been handed out against a fixed budget.
package vidmem

import (
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/grm/memutils"
)

// Accounting is an adapter-wide video memory budget. AvailableMemory and AdjustMemory
// may be called from any goroutine.
type Accounting struct {
	total int64
	used  int64
}

func NewAccounting(totalBytes int) *Accounting {
	if totalBytes < 0 {
		panic(fmt.Sprintf("video memory budget cannot be negative: %d", totalBytes))
	}
	return &Accounting{total: int64(totalBytes)}
}

func (a *Accounting) TotalMemory() int { return int(a.total) }
func (a *Accounting) UsedMemory() int  { return int(atomic.LoadInt64(&a.used)) }

func (a *Accounting) AvailableMemory() int {
	return int(a.total - atomic.LoadInt64(&a.used))
}

// AdjustMemory debits (positive delta) or credits (negative delta) the budget and returns the
// new amount of memory in use
func (a *Accounting) AdjustMemory(delta int) int {
	newVal := atomic.AddInt64(&a.used, int64(delta))
	if newVal < 0 {
		panic(fmt.Sprintf("video memory usage went negative after adjusting by %d", delta))
	}

	return int(newVal)
}

// ReserveMemory debits size bytes if doing so would not exceed the total, and reports whether
// the debit happened
func (a *Accounting) ReserveMemory(size int) bool {
	if size < 0 {
		panic(fmt.Sprintf("cannot reserve a negative amount of video memory: %d", size))
	}

	for {
		currentVal := atomic.LoadInt64(&a.used)
		targetVal := currentVal + int64(size)

		if targetVal > a.total {
			return false
		}

		if atomic.CompareAndSwapInt64(&a.used, currentVal, targetVal) {
			return true
		}
	}
}

// Counter counts bytes and objects, optionally refusing to grow past a limit. A limit of 0
// means no limit.
type Counter struct {
	bytes int64
	count int32
	limit int64
}

func NewCounter(limit int) *Counter {
	return &Counter{limit: int64(limit)}
}

func (c *Counter) Bytes() int { return int(atomic.LoadInt64(&c.bytes)) }
func (c *Counter) Count() int { return int(atomic.LoadInt32(&c.count)) }
func (c *Counter) Limit() int { return int(c.limit) }

func (c *Counter) Add(size int) error {
	if c.limit == 0 {
		atomic.AddInt64(&c.bytes, int64(size))
		atomic.AddInt32(&c.count, 1)
		return nil
	}

	for {
		currentVal := atomic.LoadInt64(&c.bytes)
		targetVal := currentVal + int64(size)

		if targetVal > c.limit {
			return errors.Wrapf(memutils.LimitExceededError, "%d bytes in use, %d requested, limit is %d", currentVal, size, c.limit)
		}

		if atomic.CompareAndSwapInt64(&c.bytes, currentVal, targetVal) {
			break
		}
	}

	atomic.AddInt32(&c.count, 1)
	return nil
}

func (c *Counter) Remove(size int) {
	newVal := atomic.AddInt64(&c.bytes, int64(-size))
	if newVal < 0 {
		panic(fmt.Sprintf("counted bytes went negative after removing %d", size))
	}

	newCountVal := atomic.AddInt32(&c.count, -1)
	if newCountVal < 0 {
		panic("counted objects went negative")
	}
}
