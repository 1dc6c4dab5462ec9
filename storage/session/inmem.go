package session

import "sync"

// MemStore keeps the session in memory.
type MemStore struct {
	mu   sync.Mutex
	sess Session
}

var _ Store = (*MemStore)(nil)

func NewMemStore(token ...string) *MemStore {
	s := &MemStore{}
	if len(token) > 0 {
		s.sess.Token = token[0]
	}
	return s
}

func (s *MemStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token, nil
}

func (s *MemStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *MemStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.SavedAt.IsZero() {
		sess.SavedAt = NowFunc().UTC()
	}
	s.sess = sess
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	return nil
}
