package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupForumServiceTest(t *testing.T) (*ForumService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:forum_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Guardian{},
		&models.Staff{},
		&models.ForumThread{},
		&models.ForumReply{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewForumService(repository.NewForumRepository(db))
	return svc, db
}

func seedForumGuardian(t *testing.T, db *gorm.DB, guardianID uint) {
	t.Helper()
	guardian := models.Guardian{
		ID:           guardianID,
		Email:        fmt.Sprintf("forum_guardian_%d@example.com", guardianID),
		PasswordHash: "hash",
		Status:       constants.GuardianStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&guardian).Error; err != nil {
		t.Fatalf("create guardian failed: %v", err)
	}
}

func TestForumCreateThreadValidation(t *testing.T) {
	svc, db := setupForumServiceTest(t)
	seedForumGuardian(t, db, 1)

	if _, err := svc.CreateThread(ForumThreadCreateInput{GuardianID: 1, Title: "  ", Body: "hello"}); !errors.Is(err, ErrForumInvalid) {
		t.Fatalf("blank title want ErrForumInvalid got %v", err)
	}
	if _, err := svc.CreateThread(ForumThreadCreateInput{Title: "Settling in tips", Body: "hello"}); !errors.Is(err, ErrForumInvalid) {
		t.Fatalf("missing guardian want ErrForumInvalid got %v", err)
	}

	thread, err := svc.CreateThread(ForumThreadCreateInput{GuardianID: 1, Title: " Settling in tips ", Body: " Any advice? "})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}
	if thread.Title != "Settling in tips" || thread.Body != "Any advice?" {
		t.Fatalf("thread fields not trimmed: %q / %q", thread.Title, thread.Body)
	}
}

func TestForumReplyCountsAndAuthors(t *testing.T) {
	svc, db := setupForumServiceTest(t)
	seedForumGuardian(t, db, 1)

	thread, err := svc.CreateThread(ForumThreadCreateInput{GuardianID: 1, Title: "Snack ideas", Body: "What do you pack?"})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}

	reply, err := svc.CreateReply(ForumReplyCreateInput{
		ThreadID:   thread.ID,
		AuthorType: models.ForumAuthorGuardian,
		GuardianID: 1,
		Body:       "Fruit and crackers",
	})
	if err != nil {
		t.Fatalf("guardian reply failed: %v", err)
	}
	if reply.GuardianID == nil || *reply.GuardianID != 1 {
		t.Fatalf("guardian author not recorded")
	}

	if _, err := svc.CreateReply(ForumReplyCreateInput{
		ThreadID:   thread.ID,
		AuthorType: models.ForumAuthorStaff,
		StaffID:    7,
		Body:       "We provide snacks on Fridays",
	}); err != nil {
		t.Fatalf("staff reply failed: %v", err)
	}

	if _, err := svc.CreateReply(ForumReplyCreateInput{
		ThreadID:   thread.ID,
		AuthorType: models.ForumAuthorStaff,
		Body:       "anonymous",
	}); !errors.Is(err, ErrForumInvalid) {
		t.Fatalf("staff reply without staff id want ErrForumInvalid got %v", err)
	}

	updated, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread failed: %v", err)
	}
	if updated.ReplyCount != 2 {
		t.Fatalf("reply count want 2 got %d", updated.ReplyCount)
	}
	if updated.LastRepliedAt == nil {
		t.Fatalf("last replied at not set")
	}
}

func TestForumLockedThreadRejectsReplies(t *testing.T) {
	svc, db := setupForumServiceTest(t)
	seedForumGuardian(t, db, 1)

	thread, err := svc.CreateThread(ForumThreadCreateInput{GuardianID: 1, Title: "Closed topic", Body: "body"})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}

	locked, err := svc.SetThreadLocked(thread.ID, true)
	if err != nil {
		t.Fatalf("lock thread failed: %v", err)
	}
	if !locked.IsLocked {
		t.Fatalf("thread should be locked")
	}

	if _, err := svc.CreateReply(ForumReplyCreateInput{
		ThreadID:   thread.ID,
		AuthorType: models.ForumAuthorGuardian,
		GuardianID: 1,
		Body:       "late reply",
	}); !errors.Is(err, ErrForumThreadLocked) {
		t.Fatalf("reply to locked thread want ErrForumThreadLocked got %v", err)
	}

	unlocked, err := svc.SetThreadLocked(thread.ID, false)
	if err != nil {
		t.Fatalf("unlock thread failed: %v", err)
	}
	if unlocked.IsLocked {
		t.Fatalf("thread should be unlocked")
	}
}

func TestForumPinAndDelete(t *testing.T) {
	svc, db := setupForumServiceTest(t)
	seedForumGuardian(t, db, 1)

	thread, err := svc.CreateThread(ForumThreadCreateInput{GuardianID: 1, Title: "Pinned notice", Body: "body"})
	if err != nil {
		t.Fatalf("create thread failed: %v", err)
	}

	pinned, err := svc.SetThreadPinned(thread.ID, true)
	if err != nil {
		t.Fatalf("pin thread failed: %v", err)
	}
	if !pinned.IsPinned {
		t.Fatalf("thread should be pinned")
	}

	if err := svc.DeleteThread(thread.ID); err != nil {
		t.Fatalf("delete thread failed: %v", err)
	}
	if _, err := svc.GetThread(thread.ID); !errors.Is(err, ErrForumThreadNotFound) {
		t.Fatalf("deleted thread want ErrForumThreadNotFound got %v", err)
	}
}
