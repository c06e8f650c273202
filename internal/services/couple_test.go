package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/notify"
)

func newCoupleFixture() (*CoupleService, *memStore, *fakePublisher) {
	store := newMemStore()
	pub := &fakePublisher{}
	svc := NewCoupleService(store, pub)
	svc.now = func() time.Time { return testNow }
	seedUser(store, "alice", "alice")
	seedUser(store, "bob", "bob")
	seedActiveCouple(store, "c1", "alice", "bob")
	return svc, store, pub
}

func TestSendMessage_PersistsAndBroadcasts(t *testing.T) {
	svc, store, pub := newCoupleFixture()

	msg, err := svc.SendMessage(context.Background(), "alice", "hey you")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.CoupleID != "c1" || msg.SenderID != "alice" {
		t.Fatalf("message fields wrong: %+v", msg)
	}
	if len(store.messages) != 1 {
		t.Fatal("message not persisted")
	}

	events := pub.byEvent(notify.EventNewMessage)
	if len(events) != 1 || events[0].channel != notify.CoupleChannel("c1") {
		t.Fatalf("broadcast wrong: %+v", events)
	}
}

func TestSendMessage_RequiresContentAndCouple(t *testing.T) {
	svc, store, _ := newCoupleFixture()
	seedUser(store, "carol", "carol")

	if _, err := svc.SendMessage(context.Background(), "alice", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), "carol", "hi"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMarkMessagesRead_OnlyPartnerMessages(t *testing.T) {
	svc, store, _ := newCoupleFixture()
	store.messages = []models.CoupleMessage{
		{ID: "m1", CoupleID: "c1", SenderID: "bob", Content: "from bob", SentAt: testNow},
		{ID: "m2", CoupleID: "c1", SenderID: "alice", Content: "from alice", SentAt: testNow},
	}

	if err := svc.MarkMessagesRead(context.Background(), "alice"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !store.messages[0].IsRead {
		t.Fatal("partner's message must be marked read")
	}
	if store.messages[1].IsRead {
		t.Fatal("own message must stay unread")
	}
}

func TestLeaderboard_OrdersByCombinedPoints(t *testing.T) {
	svc, store, _ := newCoupleFixture()
	seedUser(store, "carol", "carol")
	seedUser(store, "dave", "dave")
	second := seedActiveCouple(store, "c2", "carol", "dave")
	second.CombinedPoints = 500
	store.couples["c2"] = second

	board, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("got %d couples, want 2", len(board))
	}
	if board[0].ID != "c2" {
		t.Fatalf("top couple = %s, want the higher-scoring one", board[0].ID)
	}
}
