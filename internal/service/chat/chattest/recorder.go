// Package chattest 提供记录推送事件的 Broadcaster，供 Service 测试断言
package chattest

import (
	"context"
	"sync"

	"parkhya_chat_server/internal/dto/respond"
)

// Recorded 一次推送
type Recorded struct {
	Event   string
	Data    any
	Relayed bool // 通过 EmitMessage 推送，会走队列转发
}

// Recorder 线程安全的事件记录器
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Event: event, Data: data})
}

func (r *Recorder) EmitMessage(_ context.Context, event string, msg *respond.MessageRespond) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Event: event, Data: msg, Relayed: true})
}

// Events 返回全部记录的副本
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Named 按事件名过滤
func (r *Recorder) Named(event string) []Recorded {
	var out []Recorded
	for _, e := range r.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
