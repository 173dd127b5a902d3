package monitor

import (
	"context"
	stderrors "errors"
	"log"
	"sync"
	"time"
)

// Schedule 周期检测任务：一次延迟检测 + 固定周期检测
// 两个定时器同时启动，检测之间不串行化（每次检测在独立goroutine中运行）。
type Schedule struct {
	m    *Monitor
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	initial *time.Timer
	ticker  *time.Ticker

	wg       sync.WaitGroup
	stopOnce sync.Once
	ticks    int
}

// InitVersionCheck 启动周期检测，返回取消函数（幂等，可重复调用）
func (m *Monitor) InitVersionCheck(ctx context.Context, opts Options) (cancel func()) {
	return m.StartSchedule(ctx, opts).Cancel
}

// StartSchedule 启动周期检测并返回任务句柄
func (m *Monitor) StartSchedule(ctx context.Context, opts Options) *Schedule {
	opts = opts.WithDefaults()
	sctx, scancel := context.WithCancel(ctx)

	s := &Schedule{
		m:      m,
		opts:   opts,
		ctx:    sctx,
		cancel: scancel,
	}

	s.mu.Lock()
	s.initial = time.AfterFunc(opts.InitialDelay, s.fire)
	s.ticker = time.NewTicker(opts.CheckInterval)
	s.mu.Unlock()

	go s.loop()
	return s
}

// loop 周期触发，直到取消
func (s *Schedule) loop() {
	defer s.ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.ticker.C:
			s.fire()
		}
	}
}

// fire 启动一次检测；取消后不再启动任何检测
func (s *Schedule) fire() {
	s.mu.Lock()
	if s.stopped || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.ticks++
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.tick()
	}()
}

// tick 单次检测：错误只记录日志，不影响后续检测
func (s *Schedule) tick() {
	result, err := s.m.CheckForUpdates(s.ctx, s.opts.CheckOptions())
	if err != nil {
		if stderrors.Is(err, context.Canceled) && s.ctx.Err() != nil {
			return
		}
		log.Printf("[VersionCheck] 检测失败: %v", err)
		return
	}

	if result.HasUpdate && s.opts.OnUpdateAvailable != nil {
		s.opts.OnUpdateAvailable(result.UpdateInfo())
	}
}

// Cancel 停止两个定时器并取消进行中的请求（幂等）
func (s *Schedule) Cancel() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.initial.Stop()
		s.mu.Unlock()
		s.cancel()
	})
}

// Wait 等待所有已启动的检测结束
func (s *Schedule) Wait() {
	s.wg.Wait()
}

// Ticks 已启动的检测次数
func (s *Schedule) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Done 任务取消后关闭
func (s *Schedule) Done() <-chan struct{} {
	return s.ctx.Done()
}
