package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event 表示系统中的一个事件
type Event struct {
	Type      string      // 事件类型
	Source    string      // 事件来源
	Data      interface{} // 事件数据
	Timestamp time.Time
}

// Handler 事件处理函数
type Handler func(ctx context.Context, e Event) error

// Bus 进程内事件总线，账户流程通过它触发通知
type Bus struct {
	log      *zap.Logger
	handlers map[string][]Handler
	mu       sync.RWMutex

	eventChan chan Event
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBus 创建事件总线并启动处理协程
func NewBus(bufferSize int, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	b := &Bus{
		log:       log.Named("event_bus"),
		handlers:  make(map[string][]Handler),
		eventChan: make(chan Event, bufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	b.wg.Add(1)
	go b.processEvents()

	return b
}

// Subscribe 订阅事件类型
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.log.Debug("subscribed", zap.String("type", eventType))
}

// Publish 异步发布；缓冲区满时丢弃
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	select {
	case <-b.ctx.Done():
		b.log.Warn("bus closed, dropping event", zap.String("type", e.Type))
	case b.eventChan <- e:
	default:
		b.log.Warn("event channel full, dropping event", zap.String("type", e.Type))
	}
}

func (b *Bus) processEvents() {
	defer b.wg.Done()

	for {
		select {
		case e := <-b.eventChan:
			if err := b.dispatch(b.ctx, e); err != nil {
				b.log.Error("dispatch failed", zap.String("type", e.Type), zap.Error(err))
			}
		case <-b.ctx.Done():
			// 排空已入队的事件
			for {
				select {
				case e := <-b.eventChan:
					_ = b.dispatch(context.Background(), e)
				default:
					return
				}
			}
		}
	}
}

// dispatch 并发执行所有订阅者，记录错误但不中断
func (b *Bus) dispatch(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, h := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			if err := h(ctx, e); err != nil {
				b.log.Error("handler error", zap.String("type", e.Type), zap.Error(err))
			}
		}(h)
	}
	wg.Wait()

	return nil
}

// Shutdown 关闭事件总线，等待已入队事件处理完
func (b *Bus) Shutdown() {
	b.closeOnce.Do(func() {
		b.cancel()
		b.wg.Wait()
		b.log.Info("shutdown complete")
	})
}
