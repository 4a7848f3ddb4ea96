package feed

import (
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"techsocial/internal/models"
	"techsocial/internal/utils"
)

// Synchronizer keeps a de-duplicated, recency-ordered local copy of the
// remote feed. The collection itself lives inside a single actor, so every
// operation is safe to call from any goroutine; the actor's mailbox is the
// one execution context that mutates state.
type Synchronizer struct {
	system *actor.ActorSystem
	pid    *actor.PID

	// opTimeout bounds one round trip through the actor including its
	// network call; loadAllTimeout bounds a full walk of the feed.
	opTimeout      time.Duration
	loadAllTimeout time.Duration
}

func NewSynchronizer(system *actor.ActorSystem, source PostSource, fetchTimeout time.Duration) *Synchronizer {
	props := actor.PropsFromProducer(func() actor.Actor {
		return newFeedActor(system, source, fetchTimeout)
	})
	return &Synchronizer{
		system:         system,
		pid:            system.Root.Spawn(props),
		opTimeout:      fetchTimeout + 5*time.Second,
		loadAllTimeout: 5 * time.Minute,
	}
}

// LoadNextPage fetches the next feed page. It is a no-op (Skipped result)
// while another fetch is in flight or once the feed is exhausted.
func (s *Synchronizer) LoadNextPage() (*LoadResult, error) {
	return s.requestLoad(&loadNextPageMsg{}, s.opTimeout)
}

// LoadAll pages through the feed until the server returns an empty page or a
// fetch fails. Concurrent LoadAll calls and calls racing a fetch are refused
// with a Skipped result rather than queued.
func (s *Synchronizer) LoadAll() (*LoadResult, error) {
	return s.requestLoad(&loadAllMsg{}, s.loadAllTimeout)
}

// Refresh discards pagination state and replaces the collection with a fresh
// page 0. An in-flight LoadNextPage or LoadAll is superseded: its caller gets
// a SUPERSEDED error and its late result is dropped.
func (s *Synchronizer) Refresh() (*LoadResult, error) {
	return s.requestLoad(&refreshMsg{}, s.opTimeout)
}

// ToggleLike flips the viewer's like on a post and applies the canonical
// record the server returns. A post not present in the feed is a NOT_FOUND
// error and no request is made.
func (s *Synchronizer) ToggleLike(postID int) (*models.Post, error) {
	result, err := s.request(&toggleLikeMsg{PostID: postID}, s.opTimeout)
	if err != nil {
		return nil, err
	}
	post, ok := result.(*models.Post)
	if !ok {
		return nil, utils.NewAppError(utils.ErrServerError, fmt.Sprintf("unexpected toggle result %T", result), nil)
	}
	return post, nil
}

// RemovePost drops a post from the local collection after a confirmed remote
// deletion.
func (s *Synchronizer) RemovePost(postID int) error {
	_, err := s.request(&removePostMsg{PostID: postID}, s.opTimeout)
	return err
}

// Posts returns an immutable snapshot of the current collection, newest
// first.
func (s *Synchronizer) Posts() []models.Post {
	result, err := s.request(&getPostsMsg{}, s.opTimeout)
	if err != nil {
		return nil
	}
	posts, _ := result.([]models.Post)
	return posts
}

func (s *Synchronizer) HasMore() bool {
	return s.State().HasMore
}

func (s *Synchronizer) State() FeedState {
	result, err := s.request(&getStateMsg{}, s.opTimeout)
	if err != nil {
		return FeedState{}
	}
	state, _ := result.(FeedState)
	return state
}

func (s *Synchronizer) Stop() {
	s.system.Root.Stop(s.pid)
}

func (s *Synchronizer) requestLoad(msg interface{}, timeout time.Duration) (*LoadResult, error) {
	result, err := s.request(msg, timeout)
	if err != nil {
		return nil, err
	}
	load, ok := result.(*LoadResult)
	if !ok {
		return nil, utils.NewAppError(utils.ErrServerError, fmt.Sprintf("unexpected load result %T", result), nil)
	}
	return load, nil
}

func (s *Synchronizer) request(msg interface{}, timeout time.Duration) (interface{}, error) {
	future := s.system.Root.RequestFuture(s.pid, msg, timeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewAppError(utils.ErrServerError, "feed operation timed out", err)
	}
	if opErr, ok := result.(error); ok {
		return nil, opErr
	}
	return result, nil
}
