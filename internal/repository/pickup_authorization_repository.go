package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickupAuthorizationRepository 接送码仓储接口
type PickupAuthorizationRepository interface {
	Create(auth *models.PickupAuthorization) error
	GetByID(id uint) (*models.PickupAuthorization, error)
	GetByUUID(uuid string) (*models.PickupAuthorization, error)
	GetByCode(code string) (*models.PickupAuthorization, error)
	GetByCodeForUpdate(code string) (*models.PickupAuthorization, error)
	List(filter PickupListFilter) ([]models.PickupAuthorization, int64, error)
	ListRecentRedeemed(limit int) ([]models.PickupAuthorization, error)
	LatestIssuedAtByChild(childID uint) (*time.Time, error)
	SupersedeActiveByChild(childID uint, now time.Time) (int64, error)
	Redeem(id uint, staffID uint, now time.Time) (int64, error)
	DeleteFinishedBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormPickupAuthorizationRepository
}

// GormPickupAuthorizationRepository GORM 接送码仓储实现
type GormPickupAuthorizationRepository struct {
	db *gorm.DB
}

// NewPickupAuthorizationRepository 创建接送码仓储
func NewPickupAuthorizationRepository(db *gorm.DB) *GormPickupAuthorizationRepository {
	return &GormPickupAuthorizationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPickupAuthorizationRepository) WithTx(tx *gorm.DB) *GormPickupAuthorizationRepository {
	if tx == nil {
		return r
	}
	return &GormPickupAuthorizationRepository{db: tx}
}

// Create 创建接送码
func (r *GormPickupAuthorizationRepository) Create(auth *models.PickupAuthorization) error {
	if auth == nil {
		return errors.New("invalid pickup authorization")
	}
	return r.db.Create(auth).Error
}

// GetByID 根据 ID 查询接送码
func (r *GormPickupAuthorizationRepository) GetByID(id uint) (*models.PickupAuthorization, error) {
	if id == 0 {
		return nil, nil
	}
	var auth models.PickupAuthorization
	if err := r.db.Preload("Child").First(&auth, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth, nil
}

// GetByUUID 根据对外标识查询接送码
func (r *GormPickupAuthorizationRepository) GetByUUID(uuid string) (*models.PickupAuthorization, error) {
	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return nil, nil
	}
	var auth models.PickupAuthorization
	if err := r.db.Preload("Child").Where("uuid = ?", uuid).First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth, nil
}

// GetByCode 根据接送码查询
func (r *GormPickupAuthorizationRepository) GetByCode(code string) (*models.PickupAuthorization, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var auth models.PickupAuthorization
	if err := r.db.Preload("Child").Where("code = ?", code).First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth, nil
}

// GetByCodeForUpdate 根据接送码加锁查询
func (r *GormPickupAuthorizationRepository) GetByCodeForUpdate(code string) (*models.PickupAuthorization, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var auth models.PickupAuthorization
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth, nil
}

// List 查询接送码列表
func (r *GormPickupAuthorizationRepository) List(filter PickupListFilter) ([]models.PickupAuthorization, int64, error) {
	query := r.db.Model(&models.PickupAuthorization{}).Preload("Child")
	if filter.GuardianID > 0 {
		query = query.Where("guardian_id = ?", filter.GuardianID)
	}
	if filter.ChildID > 0 {
		query = query.Where("child_id = ?", filter.ChildID)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issued_at >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issued_at <= ?", *filter.IssuedTo)
	}
	if filter.RedeemedFrom != nil {
		query = query.Where("redeemed_at >= ?", *filter.RedeemedFrom)
	}
	if filter.RedeemedTo != nil {
		query = query.Where("redeemed_at <= ?", *filter.RedeemedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var auths []models.PickupAuthorization
	if err := query.Order("issued_at DESC, id DESC").Find(&auths).Error; err != nil {
		return nil, 0, err
	}
	return auths, total, nil
}

// ListRecentRedeemed 查询最近核销记录
func (r *GormPickupAuthorizationRepository) ListRecentRedeemed(limit int) ([]models.PickupAuthorization, error) {
	if limit <= 0 {
		limit = 20
	}
	var auths []models.PickupAuthorization
	if err := r.db.Preload("Child").Preload("Guardian").
		Where("redeemed_at IS NOT NULL").
		Order("redeemed_at DESC").
		Limit(limit).
		Find(&auths).Error; err != nil {
		return nil, err
	}
	return auths, nil
}

// LatestIssuedAtByChild 查询指定儿童最近一次签发时间
func (r *GormPickupAuthorizationRepository) LatestIssuedAtByChild(childID uint) (*time.Time, error) {
	if childID == 0 {
		return nil, nil
	}
	var auth models.PickupAuthorization
	if err := r.db.Select("issued_at").
		Where("child_id = ?", childID).
		Order("issued_at DESC").
		First(&auth).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	issuedAt := auth.IssuedAt
	return &issuedAt, nil
}

// SupersedeActiveByChild 将指定儿童尚未核销且未过期的接送码全部标记为被顶替
func (r *GormPickupAuthorizationRepository) SupersedeActiveByChild(childID uint, now time.Time) (int64, error) {
	if childID == 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.PickupAuthorization{}).
		Where("child_id = ? AND redeemed_at IS NULL AND superseded_at IS NULL AND expires_at > ?", childID, now).
		Updates(map[string]interface{}{
			"superseded_at": now,
			"updated_at":    now,
		})
	return result.RowsAffected, result.Error
}

// Redeem 条件更新核销接送码
// 只有尚未核销的行会被写入，返回受影响行数供调用方判断并发竞争结果。
func (r *GormPickupAuthorizationRepository) Redeem(id uint, staffID uint, now time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	result := r.db.Model(&models.PickupAuthorization{}).
		Where("id = ? AND redeemed_at IS NULL", id).
		Updates(map[string]interface{}{
			"redeemed_at":       now,
			"redeemed_staff_id": staffID,
			"updated_at":        now,
		})
	return result.RowsAffected, result.Error
}

// DeleteFinishedBefore 清理早于保留期的终态接送码
// 只清理已核销或已过期/被顶替的记录，在用的码永不清理。
func (r *GormPickupAuthorizationRepository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, nil
	}
	result := r.db.
		Where("issued_at < ? AND (redeemed_at IS NOT NULL OR superseded_at IS NOT NULL OR expires_at < ?)", cutoff, cutoff).
		Delete(&models.PickupAuthorization{})
	return result.RowsAffected, result.Error
}
