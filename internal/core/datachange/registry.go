// Package datachange はエンティティの変更を購読者へ同期的に通知する仕組みを提供します。
package datachange

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action は変更の種類です。
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event はコミット済みの変更 1 件を表します。
type Event struct {
	ID         string
	Entity     string
	Action     Action
	EntityID   int64
	OccurredAt time.Time
}

// Listener は変更通知を受け取ります。
type Listener interface {
	OnDataChanged(ctx context.Context, event Event)
}

// ListenerFunc は関数を Listener として扱うためのアダプタです。
type ListenerFunc func(ctx context.Context, event Event)

func (f ListenerFunc) OnDataChanged(ctx context.Context, event Event) {
	f(ctx, event)
}

type subscription struct {
	id       uint64
	listener Listener
}

// Registry は変更元のコンポーネントが所有する購読者の登録簿です。
// Publish は呼び出し元のゴルーチン上で、購読順に全購読者を呼び出してから戻ります。
type Registry struct {
	mu     sync.RWMutex
	seq    uint64
	subs   []subscription
	now    func() time.Time
	nextID func() string
}

// NewRegistry は Registry を生成します。
func NewRegistry() *Registry {
	return &Registry{
		now:    func() time.Time { return time.Now().UTC() },
		nextID: func() string { return uuid.NewString() },
	}
}

// Subscribe は listener を登録し、登録解除用の関数を返します。解除関数は複数回呼んでも安全です。
func (r *Registry) Subscribe(listener Listener) (unsubscribe func()) {
	if listener == nil {
		panic("datachange: listener is required")
	}

	r.mu.Lock()
	r.seq++
	id := r.seq
	r.subs = append(r.subs, subscription{id: id, listener: listener})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subs {
		if sub.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// Publish はイベントを生成し、現在の購読者全員へ通知します。
// 通知中の購読解除は次回以降の Publish から反映されます。
func (r *Registry) Publish(ctx context.Context, entity string, action Action, entityID int64) Event {
	event := Event{
		ID:         r.nextID(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: r.now(),
	}

	r.mu.RLock()
	snapshot := make([]subscription, len(r.subs))
	copy(snapshot, r.subs)
	r.mu.RUnlock()

	for _, sub := range snapshot {
		sub.listener.OnDataChanged(ctx, event)
	}
	return event
}

// Len は現在の購読者数を返します。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
