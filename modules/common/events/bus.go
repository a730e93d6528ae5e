// Package events - 캠페인 단위 in-process 진행 이벤트 버스.
//
// 프로세스 메모리에만 존재하며 durable하지 않음: 구독자가 없으면 이벤트는
// 버려지고(버퍼링 없음), 워크플로우 종료 후 붙는 구독자는 중간 단계 이벤트를
// 받을 수 없음. 재접속 클라이언트는 저장된 Campaign/Asset 상태를 조회해서
// 따라잡는 것이 전제 (의도된 제약).
package events

import (
	"log"
	"sync"
)

// 이벤트 타입
const (
	EventStatus           = "status" // 구독 직후 1회 전송되는 합성 이벤트
	EventStageStarted     = "stage_started"
	EventStageCompleted   = "stage_completed"
	EventImageGenerated   = "image_generated"
	EventWorkflowComplete = "workflow_complete"
	EventWorkflowError    = "workflow_error"
)

// Event - 진행 이벤트
type Event struct {
	Type       string `json:"type"`
	Stage      string `json:"stage,omitempty"`
	Message    string `json:"message,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Status     string `json:"status,omitempty"`
	URL        string `json:"url,omitempty"`
	Index      int    `json:"index,omitempty"`
	Total      int    `json:"total,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// Terminal - 구독 종료 대상 이벤트 여부
func (e Event) Terminal() bool {
	return e.Type == EventWorkflowComplete || e.Type == EventWorkflowError
}

// Subscription - 단일 구독. C에서 이벤트를 읽고, 다 쓰면 Close 호출
type Subscription struct {
	C chan Event

	bus        *Bus
	campaignID string
	closeOnce  sync.Once
}

// Close - 구독 해제. 버스에서 제거하고 채널을 닫음
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.bus.unsubscribe(s.campaignID, s)
		close(s.C)
	})
}

// Bus - 캠페인 ID로 키잉된 pub/sub 버스
// 전역 싱글톤이 아니라 main에서 생성해서 주입
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewBus - 버스 생성 (프로세스 시작 시 1회)
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe - 캠페인의 이벤트 구독 시작
// 구독 시점 이후의 이벤트만 전달됨 (과거 이벤트 replay 없음)
func (b *Bus) Subscribe(campaignID string) *Subscription {
	sub := &Subscription{
		C:          make(chan Event, 32),
		bus:        b,
		campaignID: campaignID,
	}

	b.mu.Lock()
	if b.subs[campaignID] == nil {
		b.subs[campaignID] = make(map[*Subscription]struct{})
	}
	b.subs[campaignID][sub] = struct{}{}
	count := len(b.subs[campaignID])
	b.mu.Unlock()

	log.Printf("👤 Subscriber attached to campaign %s (subscribers: %d)", campaignID, count)
	return sub
}

// Publish - 현재 구독자들에게 이벤트 전달
// 구독자가 없거나 채널이 가득 차면 버림 (워크플로우를 블로킹하지 않음)
func (b *Bus) Publish(campaignID string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[campaignID] {
		select {
		case sub.C <- event:
		default:
			log.Printf("⚠️  Dropping event %s for slow subscriber (campaign %s)", event.Type, campaignID)
		}
	}
}

// SubscriberCount - 구독자 수 (metrics용)
func (b *Bus) SubscriberCount(campaignID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[campaignID])
}

func (b *Bus) unsubscribe(campaignID string, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set, ok := b.subs[campaignID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, campaignID)
		}
	}
}
