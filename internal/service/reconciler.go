package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"wfm/backend/internal/dto"
	"wfm/backend/internal/engine"
	"wfm/backend/pkg/debounce"
)

// ── 编辑缓冲模块业务错误 ──

var (
	ErrReconcilerClosed = errors.New("编辑缓冲已关闭")
	ErrFlushBlocked     = errors.New("编辑批次被阻断级规则拒绝")
)

// editKey 待刷新编辑的去重键
type editKey struct {
	UserID        string
	ScheduleDate  string
	IntervalStart string
}

// pendingEdit 缓冲中的单格编辑
type pendingEdit struct {
	BreakType string
	EditorID  string
	SubmitAt  time.Time
}

// FlushFunc 单请求落库回调
// 返回 nil 表示已落库；返回 ErrFlushBlocked（或其包装）表示该请求被
// 规则永久拒绝，相关编辑作废；其余错误视为暂时性失败，缓冲保留待重试
type FlushFunc func(ctx context.Context, req *dto.BreakScheduleUpdateRequest, editorID string) error

// EditReconciler 手动编辑缓冲
//
// 单格编辑按 (user_id, schedule_date, interval_start) 去重缓冲，
// 同键新编辑覆盖旧编辑（刷新前后到先得）；静默期后按坐席分组逐请求落库。
// 已落库与被规则拒绝的请求即时清除对应键；暂时性失败时其余请求保留，
// 下一个静默期自动重试。刷新期间到达的同键新编辑不会被本次清除。
type EditReconciler struct {
	mu      sync.Mutex
	pending map[editKey]pendingEdit
	deb     *debounce.Debouncer
	flush   FlushFunc
	logger  *zap.Logger
	closed  bool
}

// NewEditReconciler 创建编辑缓冲；delay 为落库静默期
func NewEditReconciler(delay time.Duration, flush FlushFunc, logger *zap.Logger) *EditReconciler {
	return &EditReconciler{
		pending: make(map[editKey]pendingEdit),
		deb:     debounce.New(delay),
		flush:   flush,
		logger:  logger,
	}
}

// Submit 提交单格编辑：入缓冲并重置静默期计时
// 区间未对齐或状态非法属调用方错误，立即拒绝不入缓冲
func (r *EditReconciler) Submit(userID, scheduleDate, intervalStart, breakType, editorID string) error {
	if !engine.IsValid15MinuteInterval(intervalStart) {
		return fmt.Errorf("%w: %q", ErrIntervalNotAligned, intervalStart)
	}
	switch engine.BreakType(breakType) {
	case engine.BreakIn, engine.BreakHB1, engine.BreakB, engine.BreakHB2:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBreakType, breakType)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrReconcilerClosed
	}
	key := editKey{UserID: userID, ScheduleDate: scheduleDate, IntervalStart: intervalStart}
	r.pending[key] = pendingEdit{BreakType: breakType, EditorID: editorID, SubmitAt: time.Now()}
	r.mu.Unlock()

	r.deb.Trigger(func() {
		if err := r.FlushNow(context.Background()); err != nil {
			r.logger.Warn("编辑批量落库失败，缓冲保留待重试", zap.Error(err))
		}
	})
	return nil
}

// PendingCount 当前缓冲中的编辑数
func (r *EditReconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// FlushNow 立即将缓冲落库，按 (user_id, schedule_date) 分组逐请求处理
// 落库成功或被规则拒绝的请求清除其快照键；暂时性失败时中断，
// 未处理的请求留在缓冲等待重试
func (r *EditReconciler) FlushNow(ctx context.Context) error {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return nil
	}
	snapshot := make(map[editKey]pendingEdit, len(r.pending))
	for k, v := range r.pending {
		snapshot[k] = v
	}
	r.mu.Unlock()

	batch := buildBatch(snapshot)

	persisted, dropped := 0, 0
	for i := range batch {
		item := &batch[i]
		// 落库为悬挂点，不持锁
		err := r.flush(ctx, &item.req, item.editorID)
		switch {
		case err == nil:
			r.clearRequest(&item.req, snapshot)
			persisted++
		case errors.Is(err, ErrFlushBlocked):
			// 永久性拒绝：重试无意义，相关编辑作废
			r.clearRequest(&item.req, snapshot)
			dropped++
			r.logger.Warn("编辑请求被拒绝，相关编辑作废",
				zap.String("user_id", item.req.UserID),
				zap.String("date", item.req.ScheduleDate),
				zap.Error(err))
		default:
			r.logger.Debug("编辑批量落库中断",
				zap.Int("persisted", persisted), zap.Int("dropped", dropped))
			return err
		}
	}

	r.logger.Debug("编辑批量落库完成",
		zap.Int("persisted", persisted), zap.Int("dropped", dropped))
	return nil
}

// clearRequest 清除某请求对应的快照键
// 仅当当前值与快照一致时删除：刷新期间被覆盖的同键编辑保留
func (r *EditReconciler) clearRequest(req *dto.BreakScheduleUpdateRequest, snapshot map[editKey]pendingEdit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range req.Intervals {
		k := editKey{UserID: req.UserID, ScheduleDate: req.ScheduleDate, IntervalStart: iv.IntervalStart}
		if cur, ok := r.pending[k]; ok && cur == snapshot[k] {
			delete(r.pending, k)
		}
	}
}

// Close 关闭缓冲：取消计时器、尝试最后一次落库、拒绝后续提交
func (r *EditReconciler) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.deb.Close()
	return r.FlushNow(ctx)
}

// flushItem 落库单元：分组后的批量请求及其最近编辑人
type flushItem struct {
	req      dto.BreakScheduleUpdateRequest
	editorID string
}

// buildBatch 将缓冲快照按 (user_id, schedule_date) 聚合为批量请求
// 请求与区间均排序，保证批次内容确定；编辑人取组内最近一次提交者
func buildBatch(snapshot map[editKey]pendingEdit) []flushItem {
	type groupKey struct {
		UserID       string
		ScheduleDate string
	}
	type group struct {
		intervals []dto.IntervalUpdate
		editorID  string
		latest    time.Time
	}
	groups := make(map[groupKey]*group)
	for k, v := range snapshot {
		gk := groupKey{UserID: k.UserID, ScheduleDate: k.ScheduleDate}
		g, ok := groups[gk]
		if !ok {
			g = &group{}
			groups[gk] = g
		}
		g.intervals = append(g.intervals, dto.IntervalUpdate{
			IntervalStart: k.IntervalStart,
			BreakType:     v.BreakType,
		})
		if v.SubmitAt.After(g.latest) || g.editorID == "" {
			g.latest = v.SubmitAt
			g.editorID = v.EditorID
		}
	}

	batch := make([]flushItem, 0, len(groups))
	for gk, g := range groups {
		sort.Slice(g.intervals, func(i, j int) bool {
			return g.intervals[i].IntervalStart < g.intervals[j].IntervalStart
		})
		batch = append(batch, flushItem{
			req: dto.BreakScheduleUpdateRequest{
				UserID:       gk.UserID,
				ScheduleDate: gk.ScheduleDate,
				Intervals:    g.intervals,
			},
			editorID: g.editorID,
		})
	}
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].req.UserID != batch[j].req.UserID {
			return batch[i].req.UserID < batch[j].req.UserID
		}
		return batch[i].req.ScheduleDate < batch[j].req.ScheduleDate
	})
	return batch
}
