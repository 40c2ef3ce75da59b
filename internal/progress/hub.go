package progress

import (
	"context"
	"iter"
	"sync"

	"github.com/google/uuid"
)

// Hub: общий на процесс широковещательный канал строк прогресса.
// Публикация не блокируется: у каждого подписчика своя неограниченная очередь.
// Прогоны, идущие одновременно, перемешивают строки: это допустимо.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*Subscription)}
}

// Accept публикует строку; без подписчиков строка просто теряется.
func (h *Hub) Accept(line string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		s.push(line)
	}
}

// Subscribe подключает нового читателя. Close обязателен.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{
		id:     uuid.NewString(),
		hub:    h,
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[s.id] = s
	h.mu.Unlock()
	return s
}

// Subscribers: число активных подписок.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

type Subscription struct {
	id  string
	hub *Hub

	mu     sync.Mutex
	queue  []string
	notify chan struct{}

	once   sync.Once
	closed chan struct{}
}

func (s *Subscription) ID() string { return s.id }

func (s *Subscription) push(line string) {
	s.mu.Lock()
	s.queue = append(s.queue, line)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next ждёт следующую строку. false: подписка закрыта или ctx завершён.
func (s *Subscription) Next(ctx context.Context) (string, bool) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			line := s.queue[0]
			s.queue[0] = ""
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return line, true
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-s.closed:
			return "", false
		case <-ctx.Done():
			return "", false
		}
	}
}

// Lines отдаёт строки до Done включительно, закрытия подписки или конца ctx.
func (s *Subscription) Lines(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, ok := s.Next(ctx)
			if !ok {
				return
			}
			if !yield(line) || line == Done {
				return
			}
		}
	}
}

// Close отписывает читателя; повторный вызов безопасен.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.id)
		close(s.closed)
	})
}
