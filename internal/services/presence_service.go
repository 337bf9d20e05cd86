package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scafette/ProjetDev/internal/models"
)

// PresenceStore tracks open real-time connections per user. MarkOnline and
// MarkOffline are counted so a user stays online while any connection remains.
type PresenceStore interface {
	MarkOnline(ctx context.Context, userID int64) error
	MarkOffline(ctx context.Context, userID int64) error
	OnlineUserIDs(ctx context.Context) ([]int64, error)
	LastSeen(ctx context.Context, userID int64) (time.Time, bool, error)
}

type MemoryPresenceStore struct {
	mu          sync.Mutex
	connections map[int64]int
	lastSeen    map[int64]time.Time
	now         func() time.Time
}

func NewMemoryPresenceStore() *MemoryPresenceStore {
	return &MemoryPresenceStore{
		connections: make(map[int64]int),
		lastSeen:    make(map[int64]time.Time),
		now:         time.Now,
	}
}

func (s *MemoryPresenceStore) MarkOnline(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[userID]++
	s.lastSeen[userID] = s.now().UTC()
	return nil
}

func (s *MemoryPresenceStore) MarkOffline(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen[userID] = s.now().UTC()
	if s.connections[userID] <= 1 {
		delete(s.connections, userID)
		return nil
	}
	s.connections[userID]--
	return nil
}

func (s *MemoryPresenceStore) OnlineUserIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryPresenceStore) LastSeen(_ context.Context, userID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen, ok := s.lastSeen[userID]
	return seen, ok, nil
}

const (
	presenceConnectionsKey = "presence:connections"
	presenceLastSeenKey    = "presence:last_seen"
)

// RedisPresenceStore keeps connection counts in a hash and a last-seen
// timestamp per user in a sorted set.
type RedisPresenceStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisPresenceStore(client *redis.Client) *RedisPresenceStore {
	return &RedisPresenceStore{client: client, now: time.Now}
}

func (s *RedisPresenceStore) MarkOnline(ctx context.Context, userID int64) error {
	member := strconv.FormatInt(userID, 10)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, presenceConnectionsKey, member, 1)
	pipe.ZAdd(ctx, presenceLastSeenKey, redis.Z{Score: float64(s.now().Unix()), Member: member})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark online: %w", err)
	}
	return nil
}

func (s *RedisPresenceStore) MarkOffline(ctx context.Context, userID int64) error {
	member := strconv.FormatInt(userID, 10)
	remaining, err := s.client.HIncrBy(ctx, presenceConnectionsKey, member, -1).Result()
	if err != nil {
		return fmt.Errorf("mark offline: %w", err)
	}
	if remaining <= 0 {
		if err := s.client.HDel(ctx, presenceConnectionsKey, member).Err(); err != nil {
			return fmt.Errorf("clear presence: %w", err)
		}
	}
	return s.client.ZAdd(ctx, presenceLastSeenKey, redis.Z{Score: float64(s.now().Unix()), Member: member}).Err()
}

func (s *RedisPresenceStore) OnlineUserIDs(ctx context.Context) ([]int64, error) {
	counts, err := s.client.HGetAll(ctx, presenceConnectionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	ids := make([]int64, 0, len(counts))
	for member, rawCount := range counts {
		count, err := strconv.Atoi(rawCount)
		if err != nil || count <= 0 {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *RedisPresenceStore) LastSeen(ctx context.Context, userID int64) (time.Time, bool, error) {
	score, err := s.client.ZScore(ctx, presenceLastSeenKey, strconv.FormatInt(userID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(int64(score), 0).UTC(), true, nil
}

type userBatchReader interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

type PresenceService struct {
	store    PresenceStore
	userRepo userBatchReader
}

func NewPresenceService(store PresenceStore, userRepo userBatchReader) *PresenceService {
	return &PresenceService{store: store, userRepo: userRepo}
}

func (s *PresenceService) ListOnlineUsers(ctx context.Context) ([]models.User, error) {
	if s.store == nil {
		return nil, ErrPresenceUnavailable
	}
	ids, err := s.store.OnlineUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepo.ListByIDs(ctx, ids)
}

type UserPresence struct {
	UserID   int64      `json:"user_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen"`
}

func (s *PresenceService) GetPresence(ctx context.Context, userID int64) (*UserPresence, error) {
	if s.store == nil {
		return nil, ErrPresenceUnavailable
	}
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	ids, err := s.store.OnlineUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	presence := &UserPresence{UserID: userID}
	for _, id := range ids {
		if id == userID {
			presence.Online = true
			break
		}
	}

	seen, ok, err := s.store.LastSeen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		presence.LastSeen = &seen
	}
	return presence, nil
}
