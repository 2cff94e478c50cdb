package model

import "sync"

// Store is a bounded ring of rows backing one table view. Loading a source
// replaces its contents; a followed source keeps pushing onto it, overwriting
// the oldest rows once the capacity is reached.
type Store struct {
	mu      sync.RWMutex
	buf     []Row
	cap     int
	start   int
	size    int
	total   uint64 // total pushed
	dropped uint64
}

const DefaultCapacity = 50000

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{cap: capacity, buf: make([]Row, capacity)}
}

func (s *Store) Push(r Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push(r)
}

func (s *Store) push(r Row) {
	if s.size < s.cap {
		s.buf[(s.start+s.size)%s.cap] = r
		s.size++
	} else {
		// overwrite oldest
		s.buf[s.start] = r
		s.start = (s.start + 1) % s.cap
		s.dropped++
	}
	s.total++
}

// Replace swaps the contents for rows; counters keep running.
func (s *Store) Replace(rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.buf {
		s.buf[i] = nil
	}
	s.start, s.size = 0, 0
	for _, r := range rows {
		s.push(r)
	}
}

func (s *Store) Snapshot() ([]Row, uint64, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, s.size)
	for i := 0; i < s.size; i++ {
		out[i] = s.buf[(s.start+i)%s.cap]
	}
	return out, s.total, s.dropped
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

func (s *Store) Cap() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cap
}

// Resize changes capacity keeping the most recent rows.
func (s *Store) Resize(capacity int) {
	if capacity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]Row, s.size)
	for i := 0; i < s.size; i++ {
		rows[i] = s.buf[(s.start+i)%s.cap]
	}
	if len(rows) > capacity {
		s.dropped += uint64(len(rows) - capacity)
		rows = rows[len(rows)-capacity:]
	}
	s.buf = make([]Row, capacity)
	s.cap = capacity
	s.start = 0
	s.size = copy(s.buf, rows)
}
