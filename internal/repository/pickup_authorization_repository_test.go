package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPickupRepositoryTest(t *testing.T) (*GormPickupAuthorizationRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pickup_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Guardian{},
		&models.Child{},
		&models.GuardianChild{},
		&models.PickupAuthorization{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewPickupAuthorizationRepository(db), db
}

func seedPickupAuthorization(t *testing.T, db *gorm.DB, code string, issuedAt time.Time, ttl time.Duration) models.PickupAuthorization {
	t.Helper()
	auth := models.PickupAuthorization{
		UUID:       "uuid-" + code,
		Code:       code,
		ChildID:    1,
		GuardianID: 1,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(ttl),
		CreatedAt:  issuedAt,
		UpdatedAt:  issuedAt,
	}
	if err := db.Create(&auth).Error; err != nil {
		t.Fatalf("seed pickup authorization failed: %v", err)
	}
	return auth
}

func TestPickupRepositoryRedeemIsSingleWinner(t *testing.T) {
	repo, db := setupPickupRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	auth := seedPickupAuthorization(t, db, "PKAAAA0001", now, 24*time.Hour)

	affected, err := repo.Redeem(auth.ID, 7, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first redeem affected want 1 got %d", affected)
	}

	// 第二次条件更新必须落空，核销人与核销时间保持第一次的值
	affected, err = repo.Redeem(auth.ID, 9, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("second redeem failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second redeem affected want 0 got %d", affected)
	}

	stored, err := repo.GetByID(auth.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if stored == nil || stored.RedeemedAt == nil {
		t.Fatalf("stored authorization should be redeemed")
	}
	if stored.RedeemedStaffID == nil || *stored.RedeemedStaffID != 7 {
		t.Fatalf("redeemed staff want 7 got %v", stored.RedeemedStaffID)
	}
}

func TestPickupRepositorySupersedeActiveByChild(t *testing.T) {
	repo, db := setupPickupRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	active := seedPickupAuthorization(t, db, "PKBBBB0001", now.Add(-time.Hour), 24*time.Hour)
	expired := seedPickupAuthorization(t, db, "PKBBBB0002", now.Add(-48*time.Hour), 24*time.Hour)
	redeemed := seedPickupAuthorization(t, db, "PKBBBB0003", now.Add(-2*time.Hour), 24*time.Hour)
	if _, err := repo.Redeem(redeemed.ID, 3, now.Add(-time.Hour)); err != nil {
		t.Fatalf("redeem seed failed: %v", err)
	}

	affected, err := repo.SupersedeActiveByChild(1, now)
	if err != nil {
		t.Fatalf("supersede failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("supersede affected want 1 got %d", affected)
	}

	stored, err := repo.GetByID(active.ID)
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if stored.SupersededAt == nil {
		t.Fatalf("active authorization should be superseded")
	}

	// 已过期与已核销的码不应被顶替标记
	storedExpired, err := repo.GetByID(expired.ID)
	if err != nil {
		t.Fatalf("get expired failed: %v", err)
	}
	if storedExpired.SupersededAt != nil {
		t.Fatalf("expired authorization should not be superseded")
	}
	storedRedeemed, err := repo.GetByID(redeemed.ID)
	if err != nil {
		t.Fatalf("get redeemed failed: %v", err)
	}
	if storedRedeemed.SupersededAt != nil {
		t.Fatalf("redeemed authorization should not be superseded")
	}
}

func TestPickupRepositoryDeleteFinishedBefore(t *testing.T) {
	repo, db := setupPickupRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)
	cutoff := now.Add(-30 * 24 * time.Hour)

	oldExpired := seedPickupAuthorization(t, db, "PKCCCC0001", now.Add(-60*24*time.Hour), 24*time.Hour)
	oldRedeemed := seedPickupAuthorization(t, db, "PKCCCC0002", now.Add(-45*24*time.Hour), 24*time.Hour)
	if _, err := repo.Redeem(oldRedeemed.ID, 3, oldRedeemed.IssuedAt.Add(time.Hour)); err != nil {
		t.Fatalf("redeem seed failed: %v", err)
	}
	recent := seedPickupAuthorization(t, db, "PKCCCC0003", now.Add(-time.Hour), 24*time.Hour)

	affected, err := repo.DeleteFinishedBefore(cutoff)
	if err != nil {
		t.Fatalf("delete finished failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("delete affected want 2 got %d", affected)
	}

	for _, id := range []uint{oldExpired.ID, oldRedeemed.ID} {
		stored, err := repo.GetByID(id)
		if err != nil {
			t.Fatalf("get by id failed: %v", err)
		}
		if stored != nil {
			t.Fatalf("authorization %d should be deleted", id)
		}
	}
	stored, err := repo.GetByID(recent.ID)
	if err != nil {
		t.Fatalf("get recent failed: %v", err)
	}
	if stored == nil {
		t.Fatalf("recent authorization should survive cleanup")
	}
}
