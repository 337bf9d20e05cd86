package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/repository"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestRemoveClientWritesAuditInSameTransaction(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userRepo := repository.NewUserRepository(pool)
	removalRepo := repository.NewClientRemovalRepository(pool)
	service := NewCoachService(pool, userRepo)

	coachID := createTestAccount(t, ctx, pool, models.RoleCoach, nil)
	clientID := createTestAccount(t, ctx, pool, models.RoleUser, &coachID)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, clientID, coachID) })

	before, err := removalRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	removal, err := service.RemoveClient(ctx, coachID, clientID, "moved to another city")
	if err != nil {
		t.Fatalf("RemoveClient: %v", err)
	}
	if removal.ID == 0 || removal.RemovedAt.IsZero() {
		t.Fatalf("expected stored removal, got %+v", removal)
	}

	client, err := userRepo.GetByID(ctx, clientID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if client.CoachID != nil {
		t.Fatalf("expected coach_id cleared, got %d", *client.CoachID)
	}

	after, err := removalRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected one audit row, got %d -> %d", before, after)
	}
}

func TestRemoveClientOfAnotherCoachChangesNothing(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userRepo := repository.NewUserRepository(pool)
	removalRepo := repository.NewClientRemovalRepository(pool)
	service := NewCoachService(pool, userRepo)

	coachID := createTestAccount(t, ctx, pool, models.RoleCoach, nil)
	otherCoachID := createTestAccount(t, ctx, pool, models.RoleCoach, nil)
	clientID := createTestAccount(t, ctx, pool, models.RoleUser, &otherCoachID)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, clientID, coachID, otherCoachID) })

	before, err := removalRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	_, err = service.RemoveClient(ctx, coachID, clientID, "not mine")
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}

	client, err := userRepo.GetByID(ctx, clientID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if client.CoachID == nil || *client.CoachID != otherCoachID {
		t.Fatalf("expected coach_id to stay %d, got %v", otherCoachID, client.CoachID)
	}

	after, err := removalRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before {
		t.Fatalf("expected no audit row, got %d -> %d", before, after)
	}
}

func TestClaimSubscriptionLastWriterWins(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	service := NewSubscriptionService(pool, subscriptionRepo, repository.NewUserRepository(pool))

	firstID := createTestAccount(t, ctx, pool, models.RoleUser, nil)
	secondID := createTestAccount(t, ctx, pool, models.RoleUser, nil)
	planName := fmt.Sprintf("integration-plan-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		if _, err := pool.Exec(ctx, `DELETE FROM subscriptions WHERE name = $1`, planName); err != nil {
			t.Errorf("cleanup subscription: %v", err)
		}
		cleanupTestUsers(t, ctx, pool, firstID, secondID)
	})

	if err := service.CreatePlan(ctx, &models.Subscription{Name: planName, Price: "19.99", Color: "#ff8800", Features: []string{"chat", "plans"}}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	if _, err := service.Claim(ctx, firstID, planName); err != nil {
		t.Fatalf("first Claim: %v", err)
	}
	claimed, err := service.Claim(ctx, secondID, planName)
	if err != nil {
		t.Fatalf("second Claim: %v", err)
	}
	if claimed.UserID == nil || *claimed.UserID != secondID {
		t.Fatalf("expected claim result owned by %d, got %v", secondID, claimed.UserID)
	}

	stored, err := subscriptionRepo.GetByName(ctx, planName)
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if stored.UserID == nil || *stored.UserID != secondID {
		t.Fatalf("expected stored owner %d, got %v", secondID, stored.UserID)
	}
	if len(stored.Features) != 2 {
		t.Fatalf("expected features to round trip, got %v", stored.Features)
	}

	if _, err := service.Claim(ctx, firstID, planName+"-missing"); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestMarkConversationReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := NewChatService(repository.NewMessageRepository(pool), repository.NewUserRepository(pool), nil)

	senderID := createTestAccount(t, ctx, pool, models.RoleUser, nil)
	receiverID := createTestAccount(t, ctx, pool, models.RoleCoach, nil)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, senderID, receiverID) })

	for _, text := range []string{"first", "second"} {
		if _, err := service.SendMessage(ctx, SendMessageInput{SenderID: senderID, ReceiverID: receiverID, Message: text}); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}

	updated, err := service.MarkRead(ctx, MarkReadInput{SenderID: senderID, ReceiverID: receiverID})
	if err != nil || updated != 2 {
		t.Fatalf("expected 2 updated, got %d (%v)", updated, err)
	}
	updated, err = service.MarkRead(ctx, MarkReadInput{SenderID: senderID, ReceiverID: receiverID})
	if err != nil || updated != 0 {
		t.Fatalf("expected 0 updated on repeat, got %d (%v)", updated, err)
	}

	messages, err := service.ListConversation(ctx, receiverID, senderID)
	if err != nil {
		t.Fatalf("ListConversation: %v", err)
	}
	if len(messages) != 2 || messages[0].Message != "first" {
		t.Fatalf("expected ordered conversation, got %+v", messages)
	}
	for _, message := range messages {
		if !message.IsRead {
			t.Fatalf("message %d should be read", message.ID)
		}
	}
}

// integrationTestPool connects to TEST_DB_URL, which must point at a migrated
// throwaway database.
func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("TEST_DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("TEST_DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string, coachID *int64) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Username:     fmt.Sprintf("it-%s-%d", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}
	if coachID != nil {
		if err := userRepo.SetCoach(ctx, user.ID, coachID); err != nil {
			t.Fatalf("SetCoach: %v", err)
		}
	}
	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, ids ...int64) {
	t.Helper()

	for _, id := range ids {
		if _, err := pool.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`, id); err != nil {
			t.Errorf("cleanup messages for %d: %v", id, err)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			t.Errorf("cleanup user %d: %v", id, err)
		}
	}
}
