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

func setupAttendanceServiceTest(t *testing.T) (*AttendanceService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:attendance_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Room{},
		&models.Child{},
		&models.AttendanceRecord{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewChildRepository(db),
	)
	return svc, db
}

func seedAttendanceChild(t *testing.T, db *gorm.DB, childID uint) {
	t.Helper()
	child := models.Child{
		ID:          childID,
		FirstName:   "Test",
		LastName:    fmt.Sprintf("Child%d", childID),
		DateOfBirth: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      constants.ChildStatusEnrolled,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(&child).Error; err != nil {
		t.Fatalf("create child failed: %v", err)
	}
}

func TestAttendanceCheckInCreatesPresentRecord(t *testing.T) {
	svc, db := setupAttendanceServiceTest(t)
	seedAttendanceChild(t, db, 1)

	at := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)
	record, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 1, StaffID: 5, At: at})
	if err != nil {
		t.Fatalf("check in failed: %v", err)
	}
	if record.Status != constants.AttendanceStatusPresent {
		t.Fatalf("status want present got %s", record.Status)
	}
	if record.CheckInAt == nil || !record.CheckInAt.Equal(at) {
		t.Fatalf("check in time not recorded")
	}
	if record.CheckInStaffID == nil || *record.CheckInStaffID != 5 {
		t.Fatalf("check in staff not recorded")
	}
}

func TestAttendanceCheckInDuplicateSameDayConflicts(t *testing.T) {
	svc, db := setupAttendanceServiceTest(t)
	seedAttendanceChild(t, db, 1)

	at := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)
	if _, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 1, StaffID: 5, At: at}); err != nil {
		t.Fatalf("first check in failed: %v", err)
	}
	_, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 1, StaffID: 5, At: at.Add(time.Hour)})
	if !errors.Is(err, ErrAttendanceConflict) {
		t.Fatalf("duplicate check in want conflict got %v", err)
	}
}

func TestAttendanceCheckInUnknownChild(t *testing.T) {
	svc, _ := setupAttendanceServiceTest(t)

	_, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 99, StaffID: 5})
	if !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("unknown child want ErrChildNotFound got %v", err)
	}
}

func TestAttendanceCheckOutFlow(t *testing.T) {
	svc, db := setupAttendanceServiceTest(t)
	seedAttendanceChild(t, db, 1)

	at := time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)

	// 未入园时离园登记应失败
	if _, err := svc.CheckOut(AttendanceCheckOutInput{ChildID: 1, StaffID: 5, At: at}); !errors.Is(err, ErrAttendanceNotFound) {
		t.Fatalf("check out without check in want ErrAttendanceNotFound got %v", err)
	}

	if _, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 1, StaffID: 5, At: at}); err != nil {
		t.Fatalf("check in failed: %v", err)
	}

	out := at.Add(8 * time.Hour)
	record, err := svc.CheckOut(AttendanceCheckOutInput{ChildID: 1, StaffID: 6, At: out})
	if err != nil {
		t.Fatalf("check out failed: %v", err)
	}
	if record.CheckOutAt == nil {
		t.Fatalf("check out time not recorded")
	}
	if record.CheckOutMethod != constants.AttendanceMethodManual {
		t.Fatalf("check out method want manual got %s", record.CheckOutMethod)
	}

	// 重复离园登记应冲突
	if _, err := svc.CheckOut(AttendanceCheckOutInput{ChildID: 1, StaffID: 6, At: out.Add(time.Minute)}); !errors.Is(err, ErrAttendanceConflict) {
		t.Fatalf("duplicate check out want conflict got %v", err)
	}
}

func TestAttendanceMarkStatusValidation(t *testing.T) {
	svc, db := setupAttendanceServiceTest(t)
	seedAttendanceChild(t, db, 1)

	day := time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)

	if _, err := svc.MarkStatus(AttendanceMarkInput{ChildID: 1, StaffID: 5, Day: day, Status: "present"}); !errors.Is(err, ErrAttendanceInvalid) {
		t.Fatalf("present is not a markable status, want ErrAttendanceInvalid got %v", err)
	}

	record, err := svc.MarkStatus(AttendanceMarkInput{ChildID: 1, StaffID: 5, Day: day, Status: constants.AttendanceStatusSick, Notes: "Fever"})
	if err != nil {
		t.Fatalf("mark sick failed: %v", err)
	}
	if record.Status != constants.AttendanceStatusSick {
		t.Fatalf("status want sick got %s", record.Status)
	}

	// 补登入园后状态回到 present
	updated, err := svc.CheckIn(AttendanceCheckInInput{ChildID: 1, StaffID: 5, At: day.Add(10 * time.Hour)})
	if err != nil {
		t.Fatalf("late check in after mark failed: %v", err)
	}
	if updated.Status != constants.AttendanceStatusPresent {
		t.Fatalf("status after late check in want present got %s", updated.Status)
	}
}
