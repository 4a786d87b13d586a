package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tenangapp/tenang/internal/notification/entity"
	"github.com/tenangapp/tenang/internal/pkg/goerror"
)

func TestListInbox(t *testing.T) {
	repo := newFakeRepo()
	repo.inbox = []entity.NotificationItem{
		{ID: 1, TriggerKey: entity.TriggerKeyUserWelcome, CreatedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{ID: 2, TriggerKey: entity.TriggerKeyPasswordChanged, CreatedAt: time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)},
	}
	uc, _ := newTestUsecase(t, repo, nil, nil)

	items, err := uc.ListInbox(authCtx(7), ListInboxInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if repo.lastStatus != entity.NotificationStatusAll || repo.lastLimit != 20 || repo.lastOffset != 0 {
		t.Fatalf("unexpected query defaults: status=%s limit=%d offset=%d", repo.lastStatus, repo.lastLimit, repo.lastOffset)
	}
}

func TestListInboxStatusFilter(t *testing.T) {
	repo := newFakeRepo()
	uc, _ := newTestUsecase(t, repo, nil, nil)

	if _, err := uc.ListInbox(authCtx(7), ListInboxInput{Status: "unread", Limit: 5, Offset: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}

	if repo.lastStatus != entity.NotificationStatusUnread || repo.lastLimit != 5 || repo.lastOffset != 10 {
		t.Fatalf("unexpected query: status=%s limit=%d offset=%d", repo.lastStatus, repo.lastLimit, repo.lastOffset)
	}
}

func TestListInboxUnauthenticated(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeRepo(), nil, nil)

	_, err := uc.ListInbox(context.Background(), ListInboxInput{})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestListInboxInvalidInput(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeRepo(), nil, nil)

	if _, err := uc.ListInbox(authCtx(7), ListInboxInput{Status: "archived"}); err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if _, err := uc.ListInbox(authCtx(7), ListInboxInput{Limit: 500}); err == nil {
		t.Fatal("expected a validation error, got nil")
	}
}

func TestListInboxRepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn["ListNotifications"] = errors.New("boom")
	uc, _ := newTestUsecase(t, repo, nil, nil)

	_, err := uc.ListInbox(authCtx(7), ListInboxInput{})
	assertServerError(t, err)
}

func TestCountUnreadInbox(t *testing.T) {
	repo := newFakeRepo()
	repo.unread = 3
	uc, _ := newTestUsecase(t, repo, nil, nil)

	count, err := uc.CountUnreadInbox(authCtx(7))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 unread, got %d", count)
	}
}

func TestCountUnreadInboxUnauthenticated(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeRepo(), nil, nil)

	_, err := uc.CountUnreadInbox(context.Background())
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestCountUnreadInboxRepoError(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn["CountUnreadNotifications"] = errors.New("boom")
	uc, _ := newTestUsecase(t, repo, nil, nil)

	_, err := uc.CountUnreadInbox(authCtx(7))
	assertServerError(t, err)
}
