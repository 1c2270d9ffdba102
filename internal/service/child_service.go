package service

import (
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

// ChildService 儿童档案服务
type ChildService struct {
	childRepo    repository.ChildRepository
	roomRepo     repository.RoomRepository
	guardianRepo repository.GuardianRepository
}

// NewChildService 创建儿童档案服务
func NewChildService(childRepo repository.ChildRepository, roomRepo repository.RoomRepository, guardianRepo repository.GuardianRepository) *ChildService {
	return &ChildService{
		childRepo:    childRepo,
		roomRepo:     roomRepo,
		guardianRepo: guardianRepo,
	}
}

// ChildCreateInput 创建儿童档案输入
type ChildCreateInput struct {
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	RoomID       *uint
	MedicalNotes string
	PhotoConsent bool
}

// ChildUpdateInput 更新儿童档案输入
type ChildUpdateInput struct {
	FirstName    *string
	LastName     *string
	DateOfBirth  *time.Time
	RoomID       *uint
	MedicalNotes *string
	PhotoConsent *bool
	Status       *string
}

// ChildLinkInput 关联家长输入
type ChildLinkInput struct {
	ChildID    uint
	GuardianID uint
	Relation   string
	IsPrimary  bool
}

// CreateChild 创建儿童档案
func (s *ChildService) CreateChild(input ChildCreateInput) (*models.Child, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" || input.DateOfBirth.IsZero() {
		return nil, ErrChildInvalid
	}

	if input.RoomID != nil {
		room, err := s.roomRepo.GetByID(*input.RoomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, ErrRoomNotFound
		}
	}

	child := &models.Child{
		FirstName:    firstName,
		LastName:     lastName,
		DateOfBirth:  input.DateOfBirth,
		RoomID:       input.RoomID,
		MedicalNotes: strings.TrimSpace(input.MedicalNotes),
		PhotoConsent: input.PhotoConsent,
		Status:       constants.ChildStatusEnrolled,
	}
	if err := s.childRepo.Create(child); err != nil {
		return nil, ErrChildCreateFailed
	}
	return child, nil
}

// GetChild 获取儿童档案
func (s *ChildService) GetChild(id uint) (*models.Child, error) {
	child, err := s.childRepo.GetByID(id)
	if err != nil {
		return nil, ErrChildFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// GetChildForGuardian 获取家长名下的儿童档案
// 未关联的儿童对家长不可见，按不存在处理。
func (s *ChildService) GetChildForGuardian(guardianID, childID uint) (*models.Child, error) {
	linked, err := s.childRepo.IsLinkedToGuardian(guardianID, childID)
	if err != nil {
		return nil, ErrChildFetchFailed
	}
	if !linked {
		return nil, ErrChildNotFound
	}
	return s.GetChild(childID)
}

// ListChildren 查询儿童列表
func (s *ChildService) ListChildren(filter repository.ChildListFilter) ([]models.Child, int64, error) {
	children, total, err := s.childRepo.List(filter)
	if err != nil {
		return nil, 0, ErrChildFetchFailed
	}
	return children, total, nil
}

// ListChildrenForGuardian 查询家长名下的儿童
func (s *ChildService) ListChildrenForGuardian(guardianID uint) ([]models.Child, error) {
	children, err := s.childRepo.ListByGuardian(guardianID)
	if err != nil {
		return nil, ErrChildFetchFailed
	}
	return children, nil
}

// UpdateChild 更新儿童档案
func (s *ChildService) UpdateChild(id uint, input ChildUpdateInput) (*models.Child, error) {
	child, err := s.childRepo.GetByID(id)
	if err != nil {
		return nil, ErrChildFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	if input.FirstName != nil {
		trimmed := strings.TrimSpace(*input.FirstName)
		if trimmed == "" {
			return nil, ErrChildInvalid
		}
		child.FirstName = trimmed
	}
	if input.LastName != nil {
		trimmed := strings.TrimSpace(*input.LastName)
		if trimmed == "" {
			return nil, ErrChildInvalid
		}
		child.LastName = trimmed
	}
	if input.DateOfBirth != nil {
		if input.DateOfBirth.IsZero() {
			return nil, ErrChildInvalid
		}
		child.DateOfBirth = *input.DateOfBirth
	}
	if input.RoomID != nil {
		if *input.RoomID == 0 {
			child.RoomID = nil
		} else {
			room, err := s.roomRepo.GetByID(*input.RoomID)
			if err != nil {
				return nil, err
			}
			if room == nil {
				return nil, ErrRoomNotFound
			}
			child.RoomID = input.RoomID
		}
	}
	if input.MedicalNotes != nil {
		child.MedicalNotes = strings.TrimSpace(*input.MedicalNotes)
	}
	if input.PhotoConsent != nil {
		child.PhotoConsent = *input.PhotoConsent
	}
	if input.Status != nil {
		switch *input.Status {
		case constants.ChildStatusEnrolled, constants.ChildStatusWithdrawn:
			child.Status = *input.Status
		default:
			return nil, ErrChildInvalid
		}
	}

	if err := s.childRepo.Update(child); err != nil {
		return nil, ErrChildUpdateFailed
	}
	return child, nil
}

// DeleteChild 删除儿童档案
func (s *ChildService) DeleteChild(id uint) error {
	child, err := s.childRepo.GetByID(id)
	if err != nil {
		return ErrChildFetchFailed
	}
	if child == nil {
		return ErrChildNotFound
	}
	if err := s.childRepo.Delete(id); err != nil {
		return ErrChildDeleteFailed
	}
	return nil
}

// LinkGuardian 将家长关联到儿童
func (s *ChildService) LinkGuardian(input ChildLinkInput) error {
	child, err := s.childRepo.GetByID(input.ChildID)
	if err != nil {
		return ErrChildFetchFailed
	}
	if child == nil {
		return ErrChildNotFound
	}

	guardian, err := s.guardianRepo.GetByID(input.GuardianID)
	if err != nil {
		return err
	}
	if guardian == nil {
		return ErrGuardianNotFound
	}

	linked, err := s.childRepo.IsLinkedToGuardian(input.GuardianID, input.ChildID)
	if err != nil {
		return ErrChildFetchFailed
	}
	if linked {
		return nil
	}

	relation := strings.TrimSpace(input.Relation)
	if relation == "" {
		relation = constants.GuardianRelationOther
	}
	link := &models.GuardianChild{
		GuardianID: input.GuardianID,
		ChildID:    input.ChildID,
		Relation:   relation,
		IsPrimary:  input.IsPrimary,
	}
	if err := s.childRepo.LinkGuardian(link); err != nil {
		return ErrChildUpdateFailed
	}
	return nil
}

// UnlinkGuardian 解除家长与儿童的关联
func (s *ChildService) UnlinkGuardian(guardianID, childID uint) error {
	linked, err := s.childRepo.IsLinkedToGuardian(guardianID, childID)
	if err != nil {
		return ErrChildFetchFailed
	}
	if !linked {
		return ErrChildNotFound
	}
	if err := s.childRepo.UnlinkGuardian(guardianID, childID); err != nil {
		return ErrChildUpdateFailed
	}
	return nil
}

// ListGuardiansOfChild 查询儿童关联的家长
func (s *ChildService) ListGuardiansOfChild(childID uint) ([]models.Guardian, error) {
	child, err := s.childRepo.GetByID(childID)
	if err != nil {
		return nil, ErrChildFetchFailed
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return s.guardianRepo.ListByChildID(childID)
}
