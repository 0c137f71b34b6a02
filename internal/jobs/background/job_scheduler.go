package background

import (
	"context"
	"log"
	"sync"
	"time"

	"pressroom/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages background jobs: scheduled post publishing and
// menu tree cache warming.
type JobScheduler struct {
	scheduler gocron.Scheduler
	postSvc   services.PostService
	menuSvc   services.MenuService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(postSvc services.PostService, menuSvc services.MenuService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		postSvc:   postSvc,
		menuSvc:   menuSvc,
		jobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	publishJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(js.publishDuePosts, context.Background()),
		gocron.WithName("scheduled-post-publish"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create scheduled-post-publish job: %v", err)
	} else {
		js.jobs["publish"] = publishJob
	}

	warmJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.warmMenuTrees, context.Background()),
		gocron.WithName("menu-tree-cache-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create menu-tree-cache-warm job: %v", err)
	} else {
		js.jobs["warm"] = warmJob
	}
}

func (js *JobScheduler) publishDuePosts(ctx context.Context) {
	count, err := js.postSvc.PublishDue(ctx)
	if err != nil {
		log.Printf("ERROR: scheduled post publish failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Published %d scheduled posts", count)
	}
}

// warmMenuTrees rebuilds the cached forest of every menu so admin
// listing pages hit warm caches after an invalidation storm.
func (js *JobScheduler) warmMenuTrees(ctx context.Context) {
	menus, err := js.menuSvc.ListMenus(ctx, 100, 0)
	if err != nil {
		log.Printf("ERROR: menu tree cache warm failed to list menus: %v", err)
		return
	}
	for _, menu := range menus {
		if !menu.IsActive {
			continue
		}
		if _, err := js.menuSvc.GetTree(ctx, menu.ID); err != nil {
			log.Printf("ERROR: menu tree cache warm failed for menu %s: %v", menu.ID, err)
		}
	}
}
