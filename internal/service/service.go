package service

import (
	"context"
	"fmt"
	"time"

	"library/router/internal/domain/task"
	"library/router/internal/queue"
	"library/router/internal/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service moves navigation events from the stream into route analytics.
type Service struct {
	repository  repository.RouteHitRepository
	queue       queue.Queue
	groupName   string
	minIdleTime time.Duration
}

func NewService(
	repository repository.RouteHitRepository,
	queue queue.Queue,
	groupName string,
	minIdleTime int,
) *Service {
	if minIdleTime <= 0 {
		minIdleTime = 120
	}
	return &Service{
		repository:  repository,
		queue:       queue,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

// Publish enqueues a navigation event. It is called once per dispatched request.
func (s *Service) Publish(ctx context.Context, navigation *task.NavigationTask) error {
	if _, err := s.queue.AddTask(ctx, navigation); err != nil {
		return fmt.Errorf("failed to publish navigation to %s: %w", navigation.Path, err)
	}
	return nil
}

// RunWorkers consumes navigation events with numWorkers consumers until ctx is
// cancelled. A separate loop reclaims events left pending by dead consumers.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	stream := s.queue.StreamName(task.NavigationTaskType)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.reclaimPending(ctx, stream)
		return nil
	})
	for i := 1; i <= numWorkers; i++ {
		consumer := fmt.Sprintf("navigation-worker-%d", i)
		g.Go(func() error {
			s.consume(ctx, stream, consumer)
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) consume(ctx context.Context, stream, consumer string) {
	log.Infof("🚀 Starting navigation consumer %s", consumer)
	defer log.Infof("🛑 Navigation consumer %s stopped", consumer)

	for ctx.Err() == nil {
		msg, err := s.queue.GetTask(ctx, s.groupName, consumer, stream)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Errorf("❌ %s failed to read navigations: %v", consumer, err)
		case msg != nil:
			if err := s.processMessage(ctx, stream, msg); err != nil {
				log.Errorf("❌ Failed to record navigation %s: %v", msg.ID, err)
			}
		}
	}
}

func (s *Service) reclaimPending(ctx context.Context, stream string) {
	ticker := time.NewTicker(s.minIdleTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		consumer := fmt.Sprintf("navigation-reclaimer-%d", time.Now().UnixNano())
		pending, err := s.queue.AutoClaim(ctx, s.groupName, consumer, stream, s.minIdleTime)
		if err != nil {
			log.Errorf("❌ Failed to reclaim pending navigations: %v", err)
			continue
		}
		if len(pending) > 0 {
			log.Infof("🔄 Reclaimed %d pending navigations", len(pending))
		}
		for i := range pending {
			if err := s.processMessage(ctx, stream, &pending[i]); err != nil {
				log.Errorf("❌ Failed to record reclaimed navigation %s: %v", pending[i].ID, err)
			}
		}
	}
}

func (s *Service) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	taskType, taskData, err := queue.DecodeMessage(msg)
	if err != nil {
		return err
	}

	switch taskType {
	case task.NavigationTaskType:
		navigation, err := task.UnmarshalTask[*task.NavigationTask](taskData)
		if err != nil {
			return fmt.Errorf("failed to unmarshal navigation task data: %w", err)
		}
		if err := s.recordNavigation(ctx, navigation); err != nil {
			// Left pending so the auto-claimer retries it
			return err
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) recordNavigation(ctx context.Context, navigation *task.NavigationTask) error {
	hit := repository.RouteHit{
		Path:           navigation.Path,
		View:           navigation.View,
		CollectionName: navigation.CollectionName,
		Hits:           1,
		LastVisitedAt:  navigation.VisitedAt,
	}
	if navigation.Embedded {
		hit.EmbeddedHits = 1
	}
	if hit.LastVisitedAt.IsZero() {
		hit.LastVisitedAt = time.Now()
	}

	if err := s.repository.RecordHit(ctx, hit); err != nil {
		return fmt.Errorf("failed to record navigation to %s: %w", navigation.Path, err)
	}

	log.Debugf("Recorded navigation to %s (%s)", navigation.Path, navigation.View)
	return nil
}
