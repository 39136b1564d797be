// Package keylock 提供以字串為鍵的行程內互斥鎖
package keylock

import (
	"sort"
	"sync"
)

// Locker 以鍵為單位的互斥鎖
//
// 每個鍵的 mutex 以參考計數管理，最後一個持有者釋放後自動移除，
// 不會因為會員數量增加而無限成長。
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New 建立 Locker
func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Lock 取得單一鍵的鎖，返回釋放函數
func (l *Locker) Lock(key string) (unlock func()) {
	e := l.acquire(key)
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.release(key, e)
	}
}

// LockAll 依字串升冪取得多個鍵（重複的鍵只取一次），返回一次釋放全部的函數
//
// 所有呼叫者使用同一套排序，多鍵之間不會形成循環等待。
func (l *Locker) LockAll(keys ...string) (unlock func()) {
	ordered := Canonical(keys)
	unlocks := make([]func(), 0, len(ordered))
	for _, k := range ordered {
		unlocks = append(unlocks, l.Lock(k))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// Len 目前仍被持有或等待中的鍵數量
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Canonical 排序並去除重複與空字串
func Canonical(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)

	uniq := out[:0]
	for i, k := range out {
		if i > 0 && k == out[i-1] {
			continue
		}
		uniq = append(uniq, k)
	}
	return uniq
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
