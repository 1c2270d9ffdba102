package service

import (
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

// AttendanceService 考勤服务
type AttendanceService struct {
	repo      repository.AttendanceRepository
	childRepo repository.ChildRepository
}

// NewAttendanceService 创建考勤服务
func NewAttendanceService(repo repository.AttendanceRepository, childRepo repository.ChildRepository) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		childRepo: childRepo,
	}
}

// AttendanceCheckInInput 入园登记输入
type AttendanceCheckInInput struct {
	ChildID uint
	StaffID uint
	Notes   string
	At      time.Time
}

// AttendanceCheckOutInput 离园登记输入
type AttendanceCheckOutInput struct {
	ChildID uint
	StaffID uint
	At      time.Time
}

// AttendanceMarkInput 标记出勤状态输入
type AttendanceMarkInput struct {
	ChildID uint
	StaffID uint
	Day     time.Time
	Status  string
	Notes   string
}

// CheckIn 入园登记
// 同一儿童同日只允许一条考勤记录，重复登记视为冲突。
func (s *AttendanceService) CheckIn(input AttendanceCheckInInput) (*models.AttendanceRecord, error) {
	child, err := s.childRepo.GetByID(input.ChildID)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	at := input.At
	if at.IsZero() {
		at = time.Now()
	}
	day := truncateToDay(at)

	record, err := s.repo.GetByChildAndDay(input.ChildID, day)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if record != nil && record.CheckInAt != nil {
		return nil, ErrAttendanceConflict
	}

	staffID := input.StaffID
	if record == nil {
		record = &models.AttendanceRecord{
			ChildID:        input.ChildID,
			Day:            day,
			CheckInAt:      &at,
			CheckInStaffID: &staffID,
			Status:         constants.AttendanceStatusPresent,
			Notes:          strings.TrimSpace(input.Notes),
		}
		if err := s.repo.Create(record); err != nil {
			return nil, ErrAttendanceUpdateFailed
		}
		return record, nil
	}

	// 已有缺勤类记录时允许补登入园，状态回到 present
	record.CheckInAt = &at
	record.CheckInStaffID = &staffID
	record.Status = constants.AttendanceStatusPresent
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		record.Notes = notes
	}
	if err := s.repo.Update(record); err != nil {
		return nil, ErrAttendanceUpdateFailed
	}
	return record, nil
}

// CheckOut 手工离园登记
func (s *AttendanceService) CheckOut(input AttendanceCheckOutInput) (*models.AttendanceRecord, error) {
	at := input.At
	if at.IsZero() {
		at = time.Now()
	}
	day := truncateToDay(at)

	record, err := s.repo.GetByChildAndDay(input.ChildID, day)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if record == nil || record.CheckInAt == nil {
		return nil, ErrAttendanceNotFound
	}
	if record.CheckOutAt != nil {
		return nil, ErrAttendanceConflict
	}

	affected, err := s.repo.CheckOut(record.ID, input.StaffID, constants.AttendanceMethodManual, nil, at)
	if err != nil {
		return nil, ErrAttendanceUpdateFailed
	}
	if affected == 0 {
		return nil, ErrAttendanceConflict
	}

	updated, err := s.repo.GetByID(record.ID)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	return updated, nil
}

// MarkStatus 标记缺勤类出勤状态（absent/sick/holiday）
func (s *AttendanceService) MarkStatus(input AttendanceMarkInput) (*models.AttendanceRecord, error) {
	switch input.Status {
	case constants.AttendanceStatusAbsent, constants.AttendanceStatusSick, constants.AttendanceStatusHoliday:
	default:
		return nil, ErrAttendanceInvalid
	}

	child, err := s.childRepo.GetByID(input.ChildID)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	day := input.Day
	if day.IsZero() {
		day = time.Now()
	}
	day = truncateToDay(day)

	record, err := s.repo.GetByChildAndDay(input.ChildID, day)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if record == nil {
		record = &models.AttendanceRecord{
			ChildID: input.ChildID,
			Day:     day,
			Status:  input.Status,
			Notes:   strings.TrimSpace(input.Notes),
		}
		if err := s.repo.Create(record); err != nil {
			return nil, ErrAttendanceUpdateFailed
		}
		return record, nil
	}

	if record.CheckInAt != nil {
		return nil, ErrAttendanceConflict
	}
	record.Status = input.Status
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		record.Notes = notes
	}
	if err := s.repo.Update(record); err != nil {
		return nil, ErrAttendanceUpdateFailed
	}
	return record, nil
}

// GetRecord 获取考勤记录
func (s *AttendanceService) GetRecord(id uint) (*models.AttendanceRecord, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrAttendanceFetchFailed
	}
	if record == nil {
		return nil, ErrAttendanceNotFound
	}
	return record, nil
}

// ListRecords 查询考勤列表
func (s *AttendanceService) ListRecords(filter repository.AttendanceListFilter) ([]models.AttendanceRecord, int64, error) {
	records, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, ErrAttendanceFetchFailed
	}
	return records, total, nil
}

// ListRecordsForGuardian 查询家长名下儿童的考勤
// 未关联的儿童按不存在处理。
func (s *AttendanceService) ListRecordsForGuardian(guardianID uint, filter repository.AttendanceListFilter) ([]models.AttendanceRecord, int64, error) {
	if filter.ChildID == 0 {
		return nil, 0, ErrAttendanceInvalid
	}
	linked, err := s.childRepo.IsLinkedToGuardian(guardianID, filter.ChildID)
	if err != nil {
		return nil, 0, ErrAttendanceFetchFailed
	}
	if !linked {
		return nil, 0, ErrChildNotFound
	}
	return s.ListRecords(filter)
}

// CloseDay 日终批量补登离园
// 将指定日期已入园但未离园的记录统一登记为日终关闭。
func (s *AttendanceService) CloseDay(day time.Time, now time.Time) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, ErrAttendanceUpdateFailed
	}
	closed, err := s.repo.CloseOpenOnDay(truncateToDay(day), now)
	if err != nil {
		return 0, ErrAttendanceUpdateFailed
	}
	return closed, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
