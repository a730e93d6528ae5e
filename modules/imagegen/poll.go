package imagegen

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted - 허용 횟수 안에 작업이 끝나지 않음
var ErrPollExhausted = errors.New("poll attempts exhausted")

// Poller - 고정 간격 bounded polling
// 타임아웃 정책을 인라인 루프 대신 값으로 들고 다녀서 테스트에서 교체 가능
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
}

// Poll - done=true가 나올 때까지 check를 반복 호출
// check가 에러를 반환하면 즉시 중단, 횟수 소진 시 ErrPollExhausted
func (p Poller) Poll(ctx context.Context, check func(ctx context.Context) (done bool, err error)) error {
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Interval):
		}
	}

	return ErrPollExhausted
}
