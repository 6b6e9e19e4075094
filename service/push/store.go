// Package push manages registered Expo push tokens and forwards
// notifications to the Expo delivery endpoint. Delivery is best-effort: a
// failed batch is logged and skipped, never retried.
package push

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/NguyenNhatCP/cuttingsync/config"
)

const redisTokensKey = "push:tokens"

// TokenStore is a persistent set of Expo push tokens.
type TokenStore interface {
	Add(token string) error
	Remove(token string) error
	All() ([]string, error)
	Count() (int, error)
}

// NewTokenStore returns a redis-backed store when a redis client is
// configured, otherwise a file-backed one.
func NewTokenStore(path string, client *redis.Client) TokenStore {
	if client != nil {
		return &RedisTokenStore{client: client}
	}
	return NewFileTokenStore(path)
}

// FileTokenStore persists the token set as a JSON array on every change.
type FileTokenStore struct {
	mu     sync.Mutex
	path   string
	tokens map[string]struct{}
}

// NewFileTokenStore loads the existing token file if present; a missing or
// unreadable file starts the set empty.
func NewFileTokenStore(path string) *FileTokenStore {
	s := &FileTokenStore{path: path, tokens: make(map[string]struct{})}
	raw, err := os.ReadFile(path)
	if err == nil {
		var arr []string
		if json.Unmarshal(raw, &arr) == nil {
			for _, t := range arr {
				s.tokens[t] = struct{}{}
			}
		}
	}
	return s
}

func (s *FileTokenStore) Add(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return s.persist()
}

func (s *FileTokenStore) Remove(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return s.persist()
}

func (s *FileTokenStore) All() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *FileTokenStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens), nil
}

func (s *FileTokenStore) sorted() []string {
	out := make([]string, 0, len(s.tokens))
	for t := range s.tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// persist is called with the lock held.
func (s *FileTokenStore) persist() error {
	raw, err := json.MarshalIndent(s.sorted(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// RedisTokenStore keeps the token set in a redis set so multiple instances
// share registrations.
type RedisTokenStore struct {
	client *redis.Client
}

func (s *RedisTokenStore) Add(token string) error {
	return s.client.SAdd(config.RedisCtx(), redisTokensKey, token).Err()
}

func (s *RedisTokenStore) Remove(token string) error {
	return s.client.SRem(config.RedisCtx(), redisTokensKey, token).Err()
}

func (s *RedisTokenStore) All() ([]string, error) {
	tokens, err := s.client.SMembers(config.RedisCtx(), redisTokensKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(tokens)
	return tokens, nil
}

func (s *RedisTokenStore) Count() (int, error) {
	n, err := s.client.SCard(config.RedisCtx(), redisTokensKey).Result()
	return int(n), err
}
