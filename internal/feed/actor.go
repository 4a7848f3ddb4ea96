package feed

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"techsocial/internal/models"
	"techsocial/internal/utils"
)

// Message types for feed operations
type (
	loadNextPageMsg struct{}
	loadAllMsg      struct{}
	refreshMsg      struct{}

	toggleLikeMsg struct {
		PostID int
	}

	removePostMsg struct {
		PostID int
	}

	getPostsMsg struct{}
	getStateMsg struct{}

	// Completions of network calls started by the actor. Paging results are
	// tagged with the generation current when the fetch started so anything
	// outlived by a refresh is discarded.
	pageFetchedMsg struct {
		generation uint64
		page       int
		posts      []models.Post
		err        error
	}

	refreshFetchedMsg struct {
		generation uint64
		posts      []models.Post
		err        error
	}

	likeAppliedMsg struct {
		postID  int
		post    *models.Post
		err     error
		replyTo *actor.PID
	}
)

// LoadResult reports what a paging operation did.
type LoadResult struct {
	Added   int
	Pages   int
	HasMore bool
	// Skipped is set when the call was a no-op: a fetch was already in
	// flight, or the feed is exhausted.
	Skipped bool
}

// FeedState is a snapshot of the synchronizer's bookkeeping, exposed for
// callers that drive paging decisions and for tests.
type FeedState struct {
	NextPage   int
	HasMore    bool
	Loading    bool
	Generation uint64
	Count      int
}

type pendingLoad struct {
	replyTo *actor.PID
	loadAll bool
	added   int
	pages   int
}

// feedActor owns the local post collection. All state below is touched only
// from Receive; network calls run in goroutines and come back as messages.
type feedActor struct {
	system       *actor.ActorSystem
	self         *actor.PID
	source       PostSource
	fetchTimeout time.Duration
	log          *slog.Logger

	posts      []models.Post
	seenIDs    map[int]struct{}
	nextPage   int
	hasMore    bool
	loading    bool
	generation uint64

	pending       *pendingLoad
	refreshing    bool
	refreshWaiter *actor.PID
}

func newFeedActor(system *actor.ActorSystem, source PostSource, fetchTimeout time.Duration) actor.Actor {
	return &feedActor{
		system:       system,
		source:       source,
		fetchTimeout: fetchTimeout,
		log:          slog.Default().With("component", "feed"),
		seenIDs:      make(map[int]struct{}),
		hasMore:      true,
	}
}

// Receive handles incoming messages
func (a *feedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.self = context.Self()
		a.log.Debug("feed actor started")

	case *actor.Stopping, *actor.Stopped:
		// nothing held beyond process memory

	case *loadNextPageMsg:
		a.handleLoadNextPage(context, false)
	case *loadAllMsg:
		a.handleLoadNextPage(context, true)
	case *refreshMsg:
		a.handleRefresh(context)
	case *toggleLikeMsg:
		a.handleToggleLike(context, msg)
	case *removePostMsg:
		a.handleRemovePost(context, msg)
	case *getPostsMsg:
		context.Respond(a.snapshot())
	case *getStateMsg:
		context.Respond(a.state())

	case *pageFetchedMsg:
		a.handlePageFetched(msg)
	case *refreshFetchedMsg:
		a.handleRefreshFetched(msg)
	case *likeAppliedMsg:
		a.handleLikeApplied(msg)

	default:
		a.log.Warn("unknown message", "type", context.Message())
	}
}

func (a *feedActor) handleLoadNextPage(ctx actor.Context, all bool) {
	if a.loading || a.refreshing {
		ctx.Respond(&LoadResult{HasMore: a.hasMore, Skipped: true})
		return
	}
	if !a.hasMore {
		ctx.Respond(&LoadResult{HasMore: false, Skipped: true})
		return
	}
	a.pending = &pendingLoad{replyTo: ctx.Sender(), loadAll: all}
	a.beginFetch()
}

// beginFetch starts a page request for the current nextPage. The completion
// carries the generation current right now; a refresh in between invalidates
// it.
func (a *feedActor) beginFetch() {
	a.loading = true
	gen, page := a.generation, a.nextPage
	self := a.self

	go func() {
		fctx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		defer cancel()
		posts, err := a.source.ListPosts(fctx, page)
		a.system.Root.Send(self, &pageFetchedMsg{generation: gen, page: page, posts: posts, err: err})
	}()
}

func (a *feedActor) handlePageFetched(msg *pageFetchedMsg) {
	if msg.generation != a.generation {
		// A refresh won while this fetch was in flight. The waiter was
		// already told; the stale page must not be merged.
		a.log.Debug("discarding stale page", "page", msg.page, "generation", msg.generation)
		return
	}

	a.loading = false
	p := a.pending
	a.pending = nil
	if p == nil {
		p = &pendingLoad{}
	}

	if msg.err != nil {
		// State untouched so the caller can retry the same page.
		a.reply(p.replyTo, msg.err)
		return
	}

	if len(msg.posts) == 0 {
		a.hasMore = false
		a.reply(p.replyTo, &LoadResult{Added: p.added, Pages: p.pages, HasMore: false})
		return
	}

	added := a.merge(msg.posts)
	a.nextPage++
	p.added += added
	p.pages++

	if p.loadAll {
		a.pending = p
		a.beginFetch()
		return
	}
	a.reply(p.replyTo, &LoadResult{Added: p.added, Pages: p.pages, HasMore: a.hasMore})
}

func (a *feedActor) handleRefresh(ctx actor.Context) {
	// Every refresh opens a new generation; whatever is in flight is stale
	// from this point on.
	a.generation++

	if a.pending != nil {
		a.reply(a.pending.replyTo, utils.NewSupersededError())
		a.pending = nil
	}
	a.loading = false

	if a.refreshWaiter != nil {
		a.reply(a.refreshWaiter, utils.NewSupersededError())
	}
	a.refreshing = true
	a.refreshWaiter = ctx.Sender()

	gen := a.generation
	self := a.self
	go func() {
		fctx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		defer cancel()
		posts, err := a.source.ListPosts(fctx, 0)
		a.system.Root.Send(self, &refreshFetchedMsg{generation: gen, posts: posts, err: err})
	}()
}

func (a *feedActor) handleRefreshFetched(msg *refreshFetchedMsg) {
	if msg.generation != a.generation {
		a.log.Debug("discarding stale refresh", "generation", msg.generation)
		return
	}

	a.refreshing = false
	waiter := a.refreshWaiter
	a.refreshWaiter = nil

	if msg.err != nil {
		// The previous collection survives a failed refresh.
		a.reply(waiter, msg.err)
		return
	}

	// Wholesale replacement with the fresh page 0.
	a.posts = nil
	a.seenIDs = make(map[int]struct{})
	a.nextPage = 0
	a.hasMore = true

	if len(msg.posts) == 0 {
		a.hasMore = false
		a.reply(waiter, &LoadResult{Pages: 1, HasMore: false})
		return
	}

	added := a.merge(msg.posts)
	a.nextPage = 1
	a.reply(waiter, &LoadResult{Added: added, Pages: 1, HasMore: true})
}

func (a *feedActor) handleToggleLike(ctx actor.Context, msg *toggleLikeMsg) {
	idx := a.indexOf(msg.PostID)
	if idx < 0 {
		a.log.Warn("toggle like for post not in feed", "postID", msg.PostID)
		ctx.Respond(utils.NewPostNotFoundError(msg.PostID))
		return
	}

	// Likes are never counted locally. Send the inverse of the current flag
	// and wait for the canonical record.
	desired := !a.posts[idx].UserLiked
	replyTo := ctx.Sender()
	self := a.self

	go func() {
		fctx, cancel := context.WithTimeout(context.Background(), a.fetchTimeout)
		defer cancel()
		post, err := a.source.ToggleLike(fctx, msg.PostID, desired)
		a.system.Root.Send(self, &likeAppliedMsg{postID: msg.PostID, post: post, err: err, replyTo: replyTo})
	}()
}

func (a *feedActor) handleLikeApplied(msg *likeAppliedMsg) {
	if msg.err != nil {
		a.reply(msg.replyTo, msg.err)
		return
	}

	// Full-record replacement. If the post left the feed while the request
	// was in flight it is not reinserted.
	if idx := a.indexOf(msg.postID); idx >= 0 {
		a.posts[idx] = *msg.post
		a.sortPosts()
	}
	a.reply(msg.replyTo, msg.post)
}

func (a *feedActor) handleRemovePost(ctx actor.Context, msg *removePostMsg) {
	if idx := a.indexOf(msg.PostID); idx >= 0 {
		a.posts = append(a.posts[:idx], a.posts[idx+1:]...)
	}
	delete(a.seenIDs, msg.PostID)
	ctx.Respond(true)
}

// merge folds one fetched page into the collection, dropping posts already
// seen on overlapping pages, and restores recency order. Returns how many
// posts were new.
func (a *feedActor) merge(page []models.Post) int {
	added := 0
	for _, post := range page {
		if _, seen := a.seenIDs[post.PostID]; seen {
			continue
		}
		a.seenIDs[post.PostID] = struct{}{}
		a.posts = append(a.posts, post)
		added++
	}
	if added > 0 {
		a.sortPosts()
	}
	return added
}

// sortPosts orders by createdDate descending. The sort is stable so posts
// sharing a timestamp keep their relative insertion order.
func (a *feedActor) sortPosts() {
	sort.SliceStable(a.posts, func(i, j int) bool {
		return a.posts[i].CreatedDate.After(a.posts[j].CreatedDate)
	})
}

func (a *feedActor) indexOf(postID int) int {
	for i := range a.posts {
		if a.posts[i].PostID == postID {
			return i
		}
	}
	return -1
}

func (a *feedActor) snapshot() []models.Post {
	snap := make([]models.Post, len(a.posts))
	copy(snap, a.posts)
	return snap
}

func (a *feedActor) state() FeedState {
	return FeedState{
		NextPage:   a.nextPage,
		HasMore:    a.hasMore,
		Loading:    a.loading || a.refreshing,
		Generation: a.generation,
		Count:      len(a.posts),
	}
}

func (a *feedActor) reply(to *actor.PID, message interface{}) {
	if to == nil {
		return
	}
	a.system.Root.Send(to, message)
}
