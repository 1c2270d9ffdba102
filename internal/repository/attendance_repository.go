package repository

import (
	"errors"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	GetByID(id uint) (*models.AttendanceRecord, error)
	GetByChildAndDay(childID uint, day time.Time) (*models.AttendanceRecord, error)
	List(filter AttendanceListFilter) ([]models.AttendanceRecord, int64, error)
	Create(record *models.AttendanceRecord) error
	Update(record *models.AttendanceRecord) error
	CheckOut(id uint, staffID uint, method string, pickupAuthorizationID *uint, now time.Time) (int64, error)
	CloseOpenOnDay(day time.Time, now time.Time) (int64, error)
	CountPresentOnDay(day time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormAttendanceRepository
}

// GormAttendanceRepository GORM 实现
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository 创建考勤仓库
func NewAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAttendanceRepository) WithTx(tx *gorm.DB) *GormAttendanceRepository {
	if tx == nil {
		return r
	}
	return &GormAttendanceRepository{db: tx}
}

// GetByID 根据 ID 获取考勤记录
func (r *GormAttendanceRepository) GetByID(id uint) (*models.AttendanceRecord, error) {
	if id == 0 {
		return nil, nil
	}
	var record models.AttendanceRecord
	if err := r.db.Preload("Child").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByChildAndDay 查询儿童某日考勤记录
func (r *GormAttendanceRepository) GetByChildAndDay(childID uint, day time.Time) (*models.AttendanceRecord, error) {
	if childID == 0 {
		return nil, nil
	}
	var record models.AttendanceRecord
	if err := r.db.Where("child_id = ? AND day = ?", childID, day).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List 查询考勤列表
func (r *GormAttendanceRepository) List(filter AttendanceListFilter) ([]models.AttendanceRecord, int64, error) {
	query := r.db.Model(&models.AttendanceRecord{}).Preload("Child")
	if filter.ChildID > 0 {
		query = query.Where("child_id = ?", filter.ChildID)
	}
	if filter.RoomID > 0 {
		query = query.Joins("JOIN children ON children.id = attendance_records.child_id").
			Where("children.room_id = ?", filter.RoomID)
	}
	if filter.Status != "" {
		query = query.Where("attendance_records.status = ?", filter.Status)
	}
	if filter.DayFrom != nil {
		query = query.Where("day >= ?", *filter.DayFrom)
	}
	if filter.DayTo != nil {
		query = query.Where("day <= ?", *filter.DayTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.AttendanceRecord
	if err := query.Order("day DESC, attendance_records.id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Create 创建考勤记录
func (r *GormAttendanceRepository) Create(record *models.AttendanceRecord) error {
	if record == nil {
		return errors.New("invalid attendance record")
	}
	return r.db.Create(record).Error
}

// Update 更新考勤记录
func (r *GormAttendanceRepository) Update(record *models.AttendanceRecord) error {
	if record == nil {
		return errors.New("invalid attendance record")
	}
	return r.db.Save(record).Error
}

// CheckOut 条件更新登记离园
// 只有尚未离园的记录会被写入，返回受影响行数。
func (r *GormAttendanceRepository) CheckOut(id uint, staffID uint, method string, pickupAuthorizationID *uint, now time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.AttendanceRecord{}).
		Where("id = ? AND check_out_at IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_at":            now,
			"check_out_staff_id":      staffID,
			"check_out_method":        method,
			"pickup_authorization_id": pickupAuthorizationID,
			"updated_at":              now,
		})
	return result.RowsAffected, result.Error
}

// CloseOpenOnDay 日终批量补登离园
// 只处理已入园但未离园的记录，返回受影响行数。
func (r *GormAttendanceRepository) CloseOpenOnDay(day time.Time, now time.Time) (int64, error) {
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.AttendanceRecord{}).
		Where("day = ? AND check_in_at IS NOT NULL AND check_out_at IS NULL", day).
		Updates(map[string]interface{}{
			"check_out_at":     now,
			"check_out_method": constants.AttendanceMethodDayClose,
			"updated_at":       now,
		})
	return result.RowsAffected, result.Error
}

// CountPresentOnDay 统计某日在园人数
func (r *GormAttendanceRepository) CountPresentOnDay(day time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AttendanceRecord{}).
		Where("day = ? AND check_in_at IS NOT NULL AND check_out_at IS NULL", day).
		Count(&count).Error
	return count, err
}
