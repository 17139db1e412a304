package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"syncwire/internal/pkg/randx"
)

// MemoryStore is an in-memory Store implementation. It backs tests and
// development runs without a database. All methods copy records on the way in
// and out, so callers never share slices or struct memory with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string]Message
	channels map[string]Channel
	// channelMsgs preserves attachment order per channel.
	channelMsgs map[string][]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages:    make(map[string]Message),
		channels:    make(map[string]Channel),
		channelMsgs: make(map[string][]string),
	}
}

func (s *MemoryStore) CreateMessage(_ context.Context, m Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = randx.ID()
	m.Status = StatusSent
	m.Timestamp = time.Now().UTC()
	s.messages[m.ID] = m
	return m, nil
}

func (s *MemoryStore) GetMessage(_ context.Context, id string) (Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) UpdateMessageStatus(_ context.Context, id string, status MessageStatus) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	m.Status = status
	s.messages[id] = m
	return m, nil
}

func (s *MemoryStore) FindUnread(_ context.Context, sender, recipient string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Message
	for _, m := range s.messages {
		if m.ChannelID == "" && m.Sender == sender && m.Recipient == recipient && m.Status == StatusSent {
			out = append(out, m)
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (s *MemoryStore) ListDirectMessages(_ context.Context, a, b string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Message
	for _, m := range s.messages {
		if m.ChannelID != "" {
			continue
		}
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			out = append(out, m)
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (s *MemoryStore) DeleteDirectMessages(_ context.Context, a, b string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, m := range s.messages {
		if m.ChannelID != "" {
			continue
		}
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			delete(s.messages, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateChannel(_ context.Context, c Channel) (Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = randx.ID()
	c.CreatedAt = time.Now().UTC()
	c.Members = append([]string(nil), c.Members...)
	s.channels[c.ID] = c
	return copyChannel(c), nil
}

func (s *MemoryStore) GetChannel(_ context.Context, id string) (Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.channels[id]
	if !ok {
		return Channel{}, ErrNotFound
	}
	return copyChannel(c), nil
}

func (s *MemoryStore) UpdateChannelMembers(_ context.Context, id string, members []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.channels[id]
	if !ok {
		return ErrNotFound
	}
	c.Members = append([]string(nil), members...)
	s.channels[id] = c
	return nil
}

func (s *MemoryStore) DeleteChannel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[id]; !ok {
		return ErrNotFound
	}
	delete(s.channels, id)
	delete(s.channelMsgs, id)
	return nil
}

func (s *MemoryStore) AttachToChannel(_ context.Context, channelID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[channelID]; !ok {
		return ErrNotFound
	}
	s.channelMsgs[channelID] = append(s.channelMsgs[channelID], messageID)
	return nil
}

func (s *MemoryStore) ListChannelMessages(_ context.Context, channelID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.channels[channelID]; !ok {
		return nil, ErrNotFound
	}

	ids := s.channelMsgs[channelID]
	out := make([]Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.messages[id]; ok {
			out = append(out, m)
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (s *MemoryStore) DeleteChannelMessages(_ context.Context, channelID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, m := range s.messages {
		if m.ChannelID == channelID {
			delete(s.messages, id)
			n++
		}
	}
	delete(s.channelMsgs, channelID)
	return n, nil
}

func copyChannel(c Channel) Channel {
	c.Members = append([]string(nil), c.Members...)
	return c
}

func sortByTimestamp(ms []Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Timestamp.Before(ms[j].Timestamp)
	})
}
