package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPickupServiceTest(t *testing.T, cfg config.PickupConfig) (*PickupService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pickup_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Guardian{},
		&models.Room{},
		&models.Child{},
		&models.GuardianChild{},
		&models.PickupAuthorization{},
		&models.AttendanceRecord{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewPickupService(
		repository.NewPickupAuthorizationRepository(db),
		repository.NewChildRepository(db),
		repository.NewAttendanceRepository(db),
		nil,
		cfg,
	)
	return svc, db
}

func seedGuardianWithChild(t *testing.T, db *gorm.DB, guardianID, childID uint) {
	t.Helper()
	guardian := models.Guardian{
		ID:           guardianID,
		Email:        fmt.Sprintf("pickup_guardian_%d@example.com", guardianID),
		PasswordHash: "hash",
		Status:       constants.GuardianStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&guardian).Error; err != nil {
		t.Fatalf("create guardian failed: %v", err)
	}
	child := models.Child{
		ID:          childID,
		FirstName:   "Test",
		LastName:    fmt.Sprintf("Child%d", childID),
		DateOfBirth: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      constants.ChildStatusEnrolled,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("create child failed: %v", err)
	}
	link := models.GuardianChild{
		GuardianID: guardianID,
		ChildID:    childID,
		Relation:   constants.GuardianRelationMother,
		IsPrimary:  true,
		CreatedAt:  time.Now(),
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("create guardian child link failed: %v", err)
	}
}

func TestPickupServiceIssueGeneratesHighEntropyCode(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue pickup code failed: %v", err)
	}
	if auth == nil || auth.ID == 0 {
		t.Fatalf("invalid authorization result: %+v", auth)
	}
	if !strings.HasPrefix(auth.Code, "PK") {
		t.Fatalf("code prefix want PK got %s", auth.Code)
	}
	if len(auth.Code) != len("PK")+32 {
		t.Fatalf("code length want 34 got %d", len(auth.Code))
	}
	if auth.UUID == "" {
		t.Fatalf("authorization uuid should not be empty")
	}
	wantExpiry := auth.IssuedAt.Add(24 * time.Hour)
	if !auth.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires_at want %s got %s", wantExpiry, auth.ExpiresAt)
	}
}

func TestPickupServiceIssueRejectsUnlinkedChild(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	// 另一名家长尝试为未关联的儿童申请
	other := models.Guardian{
		ID:           2,
		Email:        "pickup_guardian_other@example.com",
		PasswordHash: "hash",
		Status:       constants.GuardianStatusActive,
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create other guardian failed: %v", err)
	}

	_, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 2, ChildID: 1})
	if !errors.Is(err, ErrPickupChildInvalid) {
		t.Fatalf("want ErrPickupChildInvalid got %v", err)
	}
}

func TestPickupServiceIssueRejectsWithdrawnChild(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	if err := db.Model(&models.Child{}).
		Where("id = ?", 1).
		Update("status", constants.ChildStatusWithdrawn).Error; err != nil {
		t.Fatalf("withdraw child failed: %v", err)
	}

	_, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if !errors.Is(err, ErrPickupChildInvalid) {
		t.Fatalf("withdrawn child want ErrPickupChildInvalid got %v", err)
	}
}

func TestPickupServiceIssueRateLimited(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24, IssueIntervalSeconds: 60})
	seedGuardianWithChild(t, db, 1, 1)

	if _, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1}); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	_, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if !errors.Is(err, ErrPickupRateLimited) {
		t.Fatalf("want ErrPickupRateLimited got %v", err)
	}
}

func TestPickupServiceIssueSupersedesPreviousCode(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24, IssueIntervalSeconds: 0})
	seedGuardianWithChild(t, db, 1, 1)

	first, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	second, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if first.Code == second.Code {
		t.Fatalf("codes should differ between issuances")
	}

	// 旧码被顶替后不可再核销
	var stored models.PickupAuthorization
	if err := db.First(&stored, first.ID).Error; err != nil {
		t.Fatalf("load first authorization failed: %v", err)
	}
	if stored.SupersededAt == nil {
		t.Fatalf("first authorization should be superseded")
	}
	if stored.StatusAt(time.Now()) != constants.PickupStatusExpired {
		t.Fatalf("superseded code status want expired got %s", stored.StatusAt(time.Now()))
	}
}

func TestPickupServiceRedeemLifecycle(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	redeemed, err := svc.RedeemPickupCode(PickupRedeemInput{StaffID: 5, Code: auth.Code})
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if redeemed.RedeemedAt == nil {
		t.Fatalf("redeemed_at should be set")
	}
	if redeemed.RedeemedStaffID == nil || *redeemed.RedeemedStaffID != 5 {
		t.Fatalf("redeemed staff want 5 got %v", redeemed.RedeemedStaffID)
	}

	// 重复核销返回已使用错误
	_, err = svc.RedeemPickupCode(PickupRedeemInput{StaffID: 6, Code: auth.Code})
	if !errors.Is(err, ErrPickupCodeRedeemed) {
		t.Fatalf("want ErrPickupCodeRedeemed got %v", err)
	}
}

func TestPickupServiceRedeemUnknownCode(t *testing.T) {
	svc, _ := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})

	_, err := svc.RedeemPickupCode(PickupRedeemInput{StaffID: 5, Code: "PK00000000000000000000000000000000"})
	if !errors.Is(err, ErrPickupCodeNotFound) {
		t.Fatalf("want ErrPickupCodeNotFound got %v", err)
	}
}

func TestPickupServiceRedeemExpiredCode(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// 将过期时间拨回过去，模拟过期后的核销尝试
	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.PickupAuthorization{}).
		Where("id = ?", auth.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("force expire failed: %v", err)
	}

	_, err = svc.RedeemPickupCode(PickupRedeemInput{StaffID: 5, Code: auth.Code})
	if !errors.Is(err, ErrPickupCodeExpired) {
		t.Fatalf("want ErrPickupCodeExpired got %v", err)
	}

	// 过期码核销失败后仍保持未核销
	var stored models.PickupAuthorization
	if err := db.First(&stored, auth.ID).Error; err != nil {
		t.Fatalf("load authorization failed: %v", err)
	}
	if stored.RedeemedAt != nil {
		t.Fatalf("expired code should stay unredeemed")
	}
}

func TestPickupServiceRedeemAutoChecksOutAttendance(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	checkIn := now.Add(-4 * time.Hour)
	staffID := uint(2)
	record := models.AttendanceRecord{
		ChildID:        1,
		Day:            day,
		CheckInAt:      &checkIn,
		CheckInStaffID: &staffID,
		Status:         constants.AttendanceStatusPresent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("create attendance failed: %v", err)
	}

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.RedeemPickupCode(PickupRedeemInput{StaffID: 5, Code: auth.Code}); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	var stored models.AttendanceRecord
	if err := db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("load attendance failed: %v", err)
	}
	if stored.CheckOutAt == nil {
		t.Fatalf("attendance should be checked out after redemption")
	}
	if stored.CheckOutMethod != constants.AttendanceMethodPickupCode {
		t.Fatalf("check out method want pickup_code got %s", stored.CheckOutMethod)
	}
	if stored.PickupAuthorizationID == nil || *stored.PickupAuthorizationID != auth.ID {
		t.Fatalf("attendance should reference authorization %d", auth.ID)
	}
}

func TestPickupServiceGetForGuardianEnforcesOwnership(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	got, err := svc.GetPickupCodeForGuardian(1, auth.UUID)
	if err != nil {
		t.Fatalf("owner fetch failed: %v", err)
	}
	if got.Code != auth.Code {
		t.Fatalf("owner should see full code")
	}

	if _, err := svc.GetPickupCodeForGuardian(2, auth.UUID); !errors.Is(err, ErrPickupCodeNotFound) {
		t.Fatalf("non-owner want ErrPickupCodeNotFound got %v", err)
	}
}

func TestPickupServiceGetStatusByUUIDOrCode(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24})
	seedGuardianWithChild(t, db, 1, 1)

	auth, err := svc.IssuePickupCode(PickupIssueInput{GuardianID: 1, ChildID: 1})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	byUUID, err := svc.GetPickupCodeStatus(auth.UUID)
	if err != nil {
		t.Fatalf("status by uuid failed: %v", err)
	}
	if byUUID.StatusAt(time.Now()) != constants.PickupStatusActive {
		t.Fatalf("fresh code want active got %s", byUUID.StatusAt(time.Now()))
	}
	if byUUID.RemainingSeconds(time.Now()) <= 0 {
		t.Fatalf("active code should have remaining seconds")
	}

	byCode, err := svc.GetPickupCodeStatus(auth.Code)
	if err != nil {
		t.Fatalf("status by code failed: %v", err)
	}
	if byCode.ID != auth.ID {
		t.Fatalf("code lookup resolved wrong record")
	}

	if _, err := svc.GetPickupCodeStatus("missing-ref"); !errors.Is(err, ErrPickupCodeNotFound) {
		t.Fatalf("unknown ref want ErrPickupCodeNotFound got %v", err)
	}
}

func TestPickupServiceCleanupFinished(t *testing.T) {
	svc, db := setupPickupServiceTest(t, config.PickupConfig{ExpireHours: 24, RetentionDays: 30})
	seedGuardianWithChild(t, db, 1, 1)

	old := models.PickupAuthorization{
		UUID:       "cleanup-old",
		Code:       "PKCLEANUPOLD000000000000000000000",
		ChildID:    1,
		GuardianID: 1,
		IssuedAt:   time.Now().Add(-60 * 24 * time.Hour),
		ExpiresAt:  time.Now().Add(-59 * 24 * time.Hour),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed old authorization failed: %v", err)
	}

	deleted, err := svc.CleanupFinished(time.Now())
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("cleanup deleted want 1 got %d", deleted)
	}
}
