package repository

import (
	"fmt"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(day time.Time, startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetAttendanceTrends(startAt, endAt time.Time) ([]DashboardAttendanceTrendRow, error)
	GetPickupTrends(startAt, endAt time.Time) ([]DashboardPickupTrendRow, error)
	GetRoomOccupancy() ([]DashboardRoomOccupancyRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	EnrolledChildren  int64
	PresentToday      int64
	CheckedOutToday   int64
	ActivePickupCodes int64
	RedeemedToday     int64
	PendingInvoices   int64
	OverdueInvoices   int64
	PendingAmount     float64
	NewGuardians      int64
	IncidentsToday    int64
	Currency          string
}

// DashboardAttendanceTrendRow 考勤趋势统计
type DashboardAttendanceTrendRow struct {
	Day        string
	Present    int64
	CheckedOut int64
}

// DashboardPickupTrendRow 接送码趋势统计
type DashboardPickupTrendRow struct {
	Day      string
	Issued   int64
	Redeemed int64
}

// DashboardRoomOccupancyRow 班级在册统计
type DashboardRoomOccupancyRow struct {
	RoomID   uint
	RoomName string
	Capacity int64
	Enrolled int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
// day 为当日零点，startAt/endAt 为统计区间（近 N 天），二者口径不同。
func (r *GormDashboardRepository) GetOverview(day time.Time, startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{Currency: constants.SiteCurrencyDefault}

	if err := r.db.Model(&models.Child{}).
		Where("status = ?", constants.ChildStatusEnrolled).
		Count(&result.EnrolledChildren).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.AttendanceRecord{}).
		Where("day = ? AND check_in_at IS NOT NULL AND check_out_at IS NULL", day).
		Count(&result.PresentToday).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.AttendanceRecord{}).
		Where("day = ? AND check_out_at IS NOT NULL", day).
		Count(&result.CheckedOutToday).Error; err != nil {
		return result, err
	}

	now := time.Now()
	if err := r.db.Model(&models.PickupAuthorization{}).
		Where("redeemed_at IS NULL AND superseded_at IS NULL AND expires_at > ?", now).
		Count(&result.ActivePickupCodes).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.PickupAuthorization{}).
		Where("redeemed_at >= ?", day).
		Count(&result.RedeemedToday).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Invoice{}).
		Where("status = ?", constants.InvoiceStatusPending).
		Count(&result.PendingInvoices).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Invoice{}).
		Where("status = ? AND due_at < ?", constants.InvoiceStatusPending, now).
		Count(&result.OverdueInvoices).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Invoice{}).
		Where("status = ?", constants.InvoiceStatusPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.PendingAmount).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Guardian{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewGuardians).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.DailyUpdate{}).
		Where("category = ? AND occurred_at >= ?", constants.DailyUpdateCategoryIncident, day).
		Count(&result.IncidentsToday).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetAttendanceTrends 获取考勤趋势
func (r *GormDashboardRepository) GetAttendanceTrends(startAt, endAt time.Time) ([]DashboardAttendanceTrendRow, error) {
	type presentRow struct {
		Day     string
		Present int64
	}
	type checkedOutRow struct {
		Day        string
		CheckedOut int64
	}

	dayExpr := "CAST(date(day) AS TEXT)"

	var presents []presentRow
	if err := r.db.Model(&models.AttendanceRecord{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as present", dayExpr)).
		Where("day >= ? AND day < ? AND check_in_at IS NOT NULL", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&presents).Error; err != nil {
		return nil, err
	}

	var checkedOuts []checkedOutRow
	if err := r.db.Model(&models.AttendanceRecord{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as checked_out", dayExpr)).
		Where("day >= ? AND day < ? AND check_out_at IS NOT NULL", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&checkedOuts).Error; err != nil {
		return nil, err
	}

	merged := make(map[string]*DashboardAttendanceTrendRow)
	order := make([]string, 0, len(presents))
	for _, row := range presents {
		merged[row.Day] = &DashboardAttendanceTrendRow{Day: row.Day, Present: row.Present}
		order = append(order, row.Day)
	}
	for _, row := range checkedOuts {
		if exist, ok := merged[row.Day]; ok {
			exist.CheckedOut = row.CheckedOut
			continue
		}
		merged[row.Day] = &DashboardAttendanceTrendRow{Day: row.Day, CheckedOut: row.CheckedOut}
		order = append(order, row.Day)
	}

	rows := make([]DashboardAttendanceTrendRow, 0, len(order))
	for _, day := range order {
		rows = append(rows, *merged[day])
	}
	return rows, nil
}

// GetPickupTrends 获取接送码签发与核销趋势
func (r *GormDashboardRepository) GetPickupTrends(startAt, endAt time.Time) ([]DashboardPickupTrendRow, error) {
	type issuedRow struct {
		Day    string
		Issued int64
	}
	type redeemedRow struct {
		Day      string
		Redeemed int64
	}

	var issued []issuedRow
	if err := r.db.Model(&models.PickupAuthorization{}).
		Select("CAST(date(issued_at) AS TEXT) as day, COUNT(*) as issued").
		Where("issued_at >= ? AND issued_at < ?", startAt, endAt).
		Group("CAST(date(issued_at) AS TEXT)").
		Order("day asc").
		Scan(&issued).Error; err != nil {
		return nil, err
	}

	var redeemed []redeemedRow
	if err := r.db.Model(&models.PickupAuthorization{}).
		Select("CAST(date(redeemed_at) AS TEXT) as day, COUNT(*) as redeemed").
		Where("redeemed_at IS NOT NULL AND redeemed_at >= ? AND redeemed_at < ?", startAt, endAt).
		Group("CAST(date(redeemed_at) AS TEXT)").
		Order("day asc").
		Scan(&redeemed).Error; err != nil {
		return nil, err
	}

	merged := make(map[string]*DashboardPickupTrendRow)
	order := make([]string, 0, len(issued))
	for _, row := range issued {
		merged[row.Day] = &DashboardPickupTrendRow{Day: row.Day, Issued: row.Issued}
		order = append(order, row.Day)
	}
	for _, row := range redeemed {
		if exist, ok := merged[row.Day]; ok {
			exist.Redeemed = row.Redeemed
			continue
		}
		merged[row.Day] = &DashboardPickupTrendRow{Day: row.Day, Redeemed: row.Redeemed}
		order = append(order, row.Day)
	}

	rows := make([]DashboardPickupTrendRow, 0, len(order))
	for _, day := range order {
		rows = append(rows, *merged[day])
	}
	return rows, nil
}

// GetRoomOccupancy 获取班级在册统计
func (r *GormDashboardRepository) GetRoomOccupancy() ([]DashboardRoomOccupancyRow, error) {
	var rows []DashboardRoomOccupancyRow
	err := r.db.Model(&models.Room{}).
		Select("rooms.id as room_id, rooms.name as room_name, rooms.capacity as capacity, COUNT(children.id) as enrolled").
		Joins("LEFT JOIN children ON children.room_id = rooms.id AND children.status = ? AND children.deleted_at IS NULL", constants.ChildStatusEnrolled).
		Where("rooms.deleted_at IS NULL").
		Group("rooms.id, rooms.name, rooms.capacity").
		Order("rooms.sort_order ASC, rooms.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
