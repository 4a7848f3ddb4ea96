package simulator

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"techsocial/internal/models"
)

// fakeServer is an in-process stand-in for the remote API, just rich enough
// to exercise the client: sign-in, paginated posts (optionally overlapping
// pages), like toggling and post creation.
type fakeServer struct {
	mu       sync.Mutex
	posts    []models.Post
	likes    map[int]map[string]bool // postID -> userSecret -> liked
	pageSize int
	overlap  bool
	nextID   int

	listener net.Listener
	server   *http.Server
}

func newFakeServer(numPosts, pageSize int, overlap bool) *fakeServer {
	s := &fakeServer{
		likes:    make(map[int]map[string]bool),
		pageSize: pageSize,
		overlap:  overlap,
		nextID:   1,
	}
	base := time.Now().AddDate(0, 0, -numPosts)
	for i := 0; i < numPosts; i++ {
		s.addPost(fmt.Sprintf("post %d", i+1), "generated body", base.AddDate(0, 0, i))
	}
	return s
}

func (s *fakeServer) addPost(title, body string, created time.Time) models.Post {
	post := models.Post{
		PostID:         s.nextID,
		Title:          title,
		Body:           body,
		AuthorUserName: "simulated",
		AuthorUserID:   uuid.New(),
		CreatedDate:    models.NewDate(created),
	}
	s.nextID++
	s.posts = append(s.posts, post)
	s.likes[post.PostID] = make(map[string]bool)
	return post
}

func (s *fakeServer) start() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/signIn", s.handleSignIn)
	mux.HandleFunc("/posts", s.handlePosts)
	mux.HandleFunc("/updateLikes", s.handleUpdateLikes)
	mux.HandleFunc("/createPost", s.handleCreatePost)
	mux.HandleFunc("/userProfile", s.handleUserProfile)

	s.server = &http.Server{Handler: mux}
	go s.server.Serve(listener)

	return "http://" + listener.Addr().String(), nil
}

func (s *fakeServer) stop() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *fakeServer) authorized(r *http.Request) bool {
	if r.Header.Get("Authorization") != "" {
		return true
	}
	return r.URL.Query().Get("userSecret") != ""
}

func (s *fakeServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	user := models.User{
		FirstName: "Sim",
		LastName:  "Reader",
		Email:     body.Email,
		UserUUID:  uuid.New(),
		Secret:    uuid.New(),
		UserName:  "sim-" + uuid.NewString()[:8],
	}
	json.NewEncoder(w).Encode(&user)
}

func (s *fakeServer) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	user := models.User{
		FirstName: "Sim",
		LastName:  "Reader",
		UserUUID:  uuid.New(),
		UserName:  "sim-reader",
	}
	json.NewEncoder(w).Encode(&user)
}

// handlePosts serves pages newest-last on purpose: the client is expected to
// sort. With overlap enabled, each page after the first repeats the last post
// of the previous page, which is what dedup exists for.
func (s *fakeServer) handlePosts(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	page := 0
	fmt.Sscanf(r.URL.Query().Get("pageNumber"), "%d", &page)

	s.mu.Lock()
	defer s.mu.Unlock()

	start := page * s.pageSize
	if s.overlap && page > 0 {
		start--
	}
	if start < 0 || start >= len(s.posts) {
		json.NewEncoder(w).Encode([]models.Post{})
		return
	}
	end := start + s.pageSize
	if end > len(s.posts) {
		end = len(s.posts)
	}

	secret := r.URL.Query().Get("userSecret")
	out := make([]models.Post, end-start)
	copy(out, s.posts[start:end])
	for i := range out {
		out[i].UserLiked = s.likes[out[i].PostID][secret]
	}
	json.NewEncoder(w).Encode(out)
}

func (s *fakeServer) handleUpdateLikes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PostID     int    `json:"postid"`
		UserLiked  bool   `json:"userLiked"`
		UserSecret string `json:"userSecret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserSecret == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].PostID != body.PostID {
			continue
		}
		wasLiked := s.likes[body.PostID][body.UserSecret]
		if body.UserLiked && !wasLiked {
			s.posts[i].Likes++
		} else if !body.UserLiked && wasLiked {
			s.posts[i].Likes--
		}
		s.likes[body.PostID][body.UserSecret] = body.UserLiked

		post := s.posts[i]
		post.UserLiked = body.UserLiked
		json.NewEncoder(w).Encode(&post)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *fakeServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserSecret string `json:"userSecret"`
		Post       struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		} `json:"post"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserSecret == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	post := s.addPost(body.Post.Title, body.Post.Body, time.Now())
	s.mu.Unlock()

	json.NewEncoder(w).Encode(&post)
}
