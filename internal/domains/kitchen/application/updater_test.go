package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

type refreshCountingService struct {
	refreshes atomic.Int64
	err       error
}

func (s *refreshCountingService) Resolve(context.Context, ports.ResolveInput) (*ports.Resolution, error) {
	return nil, errors.New("not implemented")
}

func (s *refreshCountingService) RefreshDates(context.Context) (int, error) {
	s.refreshes.Add(1)
	return 34, s.err
}

func (s *refreshCountingService) CandidateDates(context.Context) []domain.CandidateDate {
	return nil
}

func TestDateUpdater_RefreshesImmediatelyThenOnTick(t *testing.T) {
	service := &refreshCountingService{}
	updater := NewDateUpdater(service, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		updater.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return service.refreshes.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updater did not stop on context cancel")
	}
}

func TestDateUpdater_SwallowsRefreshFailures(t *testing.T) {
	service := &refreshCountingService{err: errors.New("remote unavailable")}
	updater := NewDateUpdater(service, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go updater.Run(ctx)

	require.Eventually(t, func() bool {
		return service.refreshes.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}
