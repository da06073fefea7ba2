// Package debounce 提供"取消并重排"式防抖器。
//
// 每次 Trigger 都会取消尚未触发的计划任务并重新计时，
// 静默期内无新触发时执行回调。用于预览重算与编辑批量落库的静默期控制。
package debounce

import (
	"sync"
	"time"
)

// Debouncer 取消并重排式防抖器
// 并发安全；回调在独立 goroutine 中执行
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	closed bool
}

// New 创建防抖器，delay 为静默期时长
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger 计划执行 fn：取消之前未触发的任务并重新计时
// 静默期内再次 Trigger 会使早先的 fn 永不执行
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Flush 立即执行尚未触发的任务（若有），并取消计时
// 返回是否有任务被提前执行
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	// Stop 返回 false 表示回调已触发或已停止，无需提前执行
	if d.timer.Stop() {
		d.timer.Reset(0)
		d.timer = nil
		return true
	}
	d.timer = nil
	return false
}

// Cancel 取消尚未触发的任务
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close 取消未触发任务并拒绝后续 Trigger
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
