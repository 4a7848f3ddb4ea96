package simulator

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"techsocial/internal/api"
	"techsocial/internal/auth"
	"techsocial/internal/feed"
	"techsocial/internal/models"
	"techsocial/internal/utils"
)

type SimConfig struct {
	NumReaders     int
	NumPosts       int
	PageSize       int
	OverlapPages   bool
	Duration       time.Duration
	RefreshPercent float64
	LikePercent    float64
	TickInterval   time.Duration
}

type SimulationStats struct {
	mu        sync.Mutex
	StartTime time.Time

	PageLoads  int64
	Refreshes  int64
	Likes      int64
	FailedOps  int64
	SkippedOps int64

	// Invariant violations observed in reader snapshots. Non-zero means the
	// synchronizer is broken.
	DuplicateViolations int64
	OrderViolations     int64
}

type reader struct {
	session *auth.Session
	sync    *feed.Synchronizer
}

// Simulator hammers one fake server with many concurrent readers, each
// driving its own feed synchronizer, and checks every snapshot for dedup and
// ordering violations.
type Simulator struct {
	config  SimConfig
	stats   *SimulationStats
	server  *fakeServer
	readers []*reader
	log     *slog.Logger
}

func NewSimulator(config SimConfig) *Simulator {
	return &Simulator{
		config: config,
		stats:  &SimulationStats{StartTime: time.Now()},
		log:    slog.Default().With("component", "simulator"),
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	s.server = newFakeServer(s.config.NumPosts, s.config.PageSize, s.config.OverlapPages)
	baseURL, err := s.server.start()
	if err != nil {
		return err
	}
	defer s.server.stop()
	s.log.Info("fake server up", "url", baseURL)

	system := actor.NewActorSystem()
	if err := s.createReaders(ctx, system, baseURL); err != nil {
		return err
	}
	defer func() {
		for _, r := range s.readers {
			r.sync.Stop()
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i, r := range s.readers {
		wg.Add(1)
		go func(id int, r *reader) {
			defer wg.Done()
			s.runReader(runCtx, id, r)
		}(i, r)
	}
	wg.Wait()
	return nil
}

func (s *Simulator) createReaders(ctx context.Context, system *actor.ActorSystem, baseURL string) error {
	s.readers = make([]*reader, 0, s.config.NumReaders)
	for i := 0; i < s.config.NumReaders; i++ {
		session := auth.NewSession(newMemoryStore())
		client := api.NewClient(baseURL, 5*time.Second, session, utils.NewMetricsCollector())
		if _, err := session.SignIn(ctx, client, "reader@example.com", "password"); err != nil {
			return err
		}
		s.readers = append(s.readers, &reader{
			session: session,
			sync:    feed.NewSynchronizer(system, client, 5*time.Second),
		})
	}
	s.log.Info("readers signed in", "count", len(s.readers))
	return nil
}

func (s *Simulator) runReader(ctx context.Context, id int, r *reader) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step(rng, r)
			s.verify(r.sync.Posts())
		}
	}
}

func (s *Simulator) step(rng *rand.Rand, r *reader) {
	roll := rng.Float64()
	switch {
	case roll < s.config.RefreshPercent:
		_, err := r.sync.Refresh()
		s.record(&s.stats.Refreshes, err)
	case roll < s.config.RefreshPercent+s.config.LikePercent:
		posts := r.sync.Posts()
		if len(posts) == 0 {
			return
		}
		_, err := r.sync.ToggleLike(posts[rng.Intn(len(posts))].PostID)
		s.record(&s.stats.Likes, err)
	default:
		result, err := r.sync.LoadNextPage()
		if err == nil && result.Skipped {
			s.stats.mu.Lock()
			s.stats.SkippedOps++
			s.stats.mu.Unlock()
			return
		}
		s.record(&s.stats.PageLoads, err)
	}
}

func (s *Simulator) record(counter *int64, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()
	if err != nil {
		// Superseded paging is an expected outcome under concurrent refresh.
		if utils.IsErrorCode(err, utils.ErrSuperseded) {
			s.stats.SkippedOps++
			return
		}
		s.stats.FailedOps++
		return
	}
	*counter++
}

func (s *Simulator) verify(posts []models.Post) {
	seen := make(map[int]struct{}, len(posts))
	var dups, misorders int64
	for i, post := range posts {
		if _, ok := seen[post.PostID]; ok {
			dups++
		}
		seen[post.PostID] = struct{}{}
		if i > 0 && posts[i].CreatedDate.After(posts[i-1].CreatedDate) {
			misorders++
		}
	}
	if dups == 0 && misorders == 0 {
		return
	}
	s.stats.mu.Lock()
	s.stats.DuplicateViolations += dups
	s.stats.OrderViolations += misorders
	s.stats.mu.Unlock()
}

type StatsSnapshot struct {
	Elapsed             time.Duration
	PageLoads           int64
	Refreshes           int64
	Likes               int64
	FailedOps           int64
	SkippedOps          int64
	DuplicateViolations int64
	OrderViolations     int64
}

func (s *Simulator) GetStats() StatsSnapshot {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()
	return StatsSnapshot{
		Elapsed:             time.Since(s.stats.StartTime),
		PageLoads:           s.stats.PageLoads,
		Refreshes:           s.stats.Refreshes,
		Likes:               s.stats.Likes,
		FailedOps:           s.stats.FailedOps,
		SkippedOps:          s.stats.SkippedOps,
		DuplicateViolations: s.stats.DuplicateViolations,
		OrderViolations:     s.stats.OrderViolations,
	}
}

// memoryStore keeps simulated readers' credentials in memory; nothing should
// touch the disk during a run.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok
}

func (m *memoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
