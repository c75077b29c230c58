package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/logger"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Task struct {
	Name    string
	Repo    ExpiredDeleter
	Counter prometheus.Counter
}

// StartCleanup runs DeleteExpired on every tick until ctx is cancelled.
func StartCleanup(ctx context.Context, task Task, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, task, log)
		}
	}
}

func RunOnce(ctx context.Context, task Task, log *logger.Logger) {
	deleted, err := task.Repo.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorf("%s cleanup failed: %v", task.Name, err)
		}
		return
	}
	if deleted > 0 {
		if task.Counter != nil {
			task.Counter.Add(float64(deleted))
		}
		log.Infof("%s cleanup: removed %d expired entries", task.Name, deleted)
	}
}

func RevokedTokenTask(repo ExpiredDeleter) Task {
	return Task{Name: "revoked token", Repo: repo, Counter: metrics.RevokedTokensCleanupDeleted}
}

func ResetTokenTask(repo ExpiredDeleter) Task {
	return Task{Name: "password reset token", Repo: repo, Counter: metrics.ResetTokensCleanupCleared}
}

// Start launches one goroutine per task and returns a wait function that
// blocks until all of them have exited after ctx is cancelled.
func Start(ctx context.Context, interval time.Duration, log *logger.Logger, tasks ...Task) (wait func()) {
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			StartCleanup(ctx, task, interval, log)
		}(task)
	}
	return wg.Wait
}
