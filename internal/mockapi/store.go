package mockapi

import (
	"sort"
	"sync"
)

// Post mirrors the jsonplaceholder resource the demo talks to.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Store is an in-memory, concurrency-safe post collection.
type Store struct {
	mu     sync.RWMutex
	posts  map[int]Post
	nextID int
}

// NewStore returns a store seeded with posts.
func NewStore(seed ...Post) *Store {
	s := &Store{posts: make(map[int]Post, len(seed)), nextID: 1}
	for _, p := range seed {
		s.posts[p.ID] = p
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// DefaultPosts is the seed used by NewRouter when no store is supplied.
func DefaultPosts() []Post {
	return []Post{
		{ID: 1, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{ID: 2, UserID: 1, Title: "qui est esse", Body: "est rerum tempore vitae"},
		{ID: 3, UserID: 2, Title: "ea molestias quasi", Body: "et iusto sed quo iure"},
	}
}

// List returns every post ordered by id.
func (s *Store) List() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the post with id.
func (s *Store) Get(id int) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	return p, ok
}

// Create assigns the next id to p and stores it.
func (s *Store) Create(p Post) Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.posts[p.ID] = p
	return p
}

// Replace overwrites the post with id. It reports false if id is unknown.
func (s *Store) Replace(id int, p Post) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return Post{}, false
	}
	p.ID = id
	s.posts[id] = p
	return p, true
}

// Delete removes the post with id. It reports false if id is unknown.
func (s *Store) Delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return false
	}
	delete(s.posts, id)
	return true
}
