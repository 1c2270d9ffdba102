package main

import (
	"fmt"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/config"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加班级
	rooms := []models.Room{
		{Name: "Caterpillars", Capacity: 12, AgeMinMonth: 3, AgeMaxMonth: 24, SortOrder: 10},
		{Name: "Butterflies", Capacity: 16, AgeMinMonth: 24, AgeMaxMonth: 36, SortOrder: 20},
		{Name: "Dragonflies", Capacity: 20, AgeMinMonth: 36, AgeMaxMonth: 60, SortOrder: 30},
	}
	for _, room := range rooms {
		var existing models.Room
		if err := models.DB.Where("name = ?", room.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&room).Error; err != nil {
				stdLog.Printf("Failed to create room %s: %v", room.Name, err)
			} else {
				stdLog.Printf("Created room: %s", room.Name)
			}
		} else {
			stdLog.Printf("Room already exists: %s", room.Name)
		}
	}

	// 获取班级ID
	roomIDs := map[string]uint{}
	var roomList []models.Room
	if err := models.DB.Where("name IN ?", []string{"Caterpillars", "Butterflies", "Dragonflies"}).Find(&roomList).Error; err != nil {
		stdLog.Printf("Failed to load rooms: %v", err)
	}
	for _, room := range roomList {
		roomIDs[room.Name] = room.ID
	}
	caterpillarsID := roomIDs["Caterpillars"]
	butterfliesID := roomIDs["Butterflies"]

	// 添加默认园长账号
	if err := models.InitDefaultStaff("", ""); err != nil {
		stdLog.Printf("Failed to init default staff: %v", err)
	}

	// 添加班级老师
	staffMembers := []models.Staff{
		{Username: "emily.h", DisplayName: "Emily Hart", Role: constants.StaffRoleRoomLeader, RoomID: uintPtr(caterpillarsID)},
		{Username: "sofia.m", DisplayName: "Sofia Mendes", Role: constants.StaffRoleAssistant, RoomID: uintPtr(butterfliesID)},
	}
	for _, member := range staffMembers {
		var existing models.Staff
		if err := models.DB.Where("username = ?", member.Username).First(&existing).Error; err != nil {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte("Nursery2024!"), bcrypt.DefaultCost)
			if hashErr != nil {
				stdLog.Printf("Failed to hash staff password: %v", hashErr)
				continue
			}
			member.PasswordHash = string(hash)
			if err := models.DB.Create(&member).Error; err != nil {
				stdLog.Printf("Failed to create staff %s: %v", member.Username, err)
			} else {
				stdLog.Printf("Created staff: %s (password Nursery2024!)", member.Username)
			}
		} else {
			stdLog.Printf("Staff already exists: %s", member.Username)
		}
	}

	// 添加演示家长账号
	guardians := []models.Guardian{
		{Email: "amelia.jones@example.com", DisplayName: "Amelia Jones", Phone: "+44 7700 900123", Locale: "en-GB"},
		{Email: "liwei.chen@example.com", DisplayName: "Chen Liwei", Phone: "+44 7700 900456", Locale: "zh-CN"},
	}
	for _, guardian := range guardians {
		var existing models.Guardian
		if err := models.DB.Where("email = ?", guardian.Email).First(&existing).Error; err != nil {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte("Nursery2024!"), bcrypt.DefaultCost)
			if hashErr != nil {
				stdLog.Printf("Failed to hash guardian password: %v", hashErr)
				continue
			}
			guardian.PasswordHash = string(hash)
			guardian.Status = constants.GuardianStatusActive
			if err := models.DB.Create(&guardian).Error; err != nil {
				stdLog.Printf("Failed to create guardian %s: %v", guardian.Email, err)
			} else {
				stdLog.Printf("Created guardian: %s (password Nursery2024!)", guardian.Email)
			}
		} else {
			stdLog.Printf("Guardian already exists: %s", guardian.Email)
		}
	}

	// 获取家长ID
	guardianIDs := map[string]uint{}
	var guardianList []models.Guardian
	if err := models.DB.Where("email IN ?", []string{"amelia.jones@example.com", "liwei.chen@example.com"}).Find(&guardianList).Error; err != nil {
		stdLog.Printf("Failed to load guardians: %v", err)
	}
	for _, guardian := range guardianList {
		guardianIDs[guardian.Email] = guardian.ID
	}
	ameliaID := guardianIDs["amelia.jones@example.com"]
	liweiID := guardianIDs["liwei.chen@example.com"]

	// 添加儿童档案
	children := []models.Child{
		{
			FirstName:    "Oliver",
			LastName:     "Jones",
			DateOfBirth:  time.Date(2022, 4, 12, 0, 0, 0, 0, time.UTC),
			RoomID:       uintPtr(caterpillarsID),
			MedicalNotes: "Mild peanut allergy",
			PhotoConsent: true,
			Status:       constants.ChildStatusEnrolled,
		},
		{
			FirstName:    "Mia",
			LastName:     "Jones",
			DateOfBirth:  time.Date(2021, 1, 30, 0, 0, 0, 0, time.UTC),
			RoomID:       uintPtr(butterfliesID),
			PhotoConsent: true,
			Status:       constants.ChildStatusEnrolled,
		},
		{
			FirstName:   "Anna",
			LastName:    "Chen",
			DateOfBirth: time.Date(2021, 9, 5, 0, 0, 0, 0, time.UTC),
			RoomID:      uintPtr(butterfliesID),
			Status:      constants.ChildStatusEnrolled,
		},
	}
	for _, child := range children {
		var existing models.Child
		if err := models.DB.Where("first_name = ? AND last_name = ?", child.FirstName, child.LastName).First(&existing).Error; err != nil {
			if err := models.DB.Create(&child).Error; err != nil {
				stdLog.Printf("Failed to create child %s %s: %v", child.FirstName, child.LastName, err)
			} else {
				stdLog.Printf("Created child: %s %s", child.FirstName, child.LastName)
			}
		} else {
			stdLog.Printf("Child already exists: %s %s", child.FirstName, child.LastName)
		}
	}

	// 获取儿童ID并建立家长关联
	childIDs := map[string]uint{}
	var childList []models.Child
	if err := models.DB.Where("last_name IN ?", []string{"Jones", "Chen"}).Find(&childList).Error; err != nil {
		stdLog.Printf("Failed to load children: %v", err)
	}
	for _, child := range childList {
		childIDs[child.FirstName] = child.ID
	}

	links := []models.GuardianChild{
		{GuardianID: ameliaID, ChildID: childIDs["Oliver"], Relation: constants.GuardianRelationMother, IsPrimary: true},
		{GuardianID: ameliaID, ChildID: childIDs["Mia"], Relation: constants.GuardianRelationMother, IsPrimary: true},
		{GuardianID: liweiID, ChildID: childIDs["Anna"], Relation: constants.GuardianRelationFather, IsPrimary: true},
	}
	for _, link := range links {
		if link.GuardianID == 0 || link.ChildID == 0 {
			continue
		}
		var existing models.GuardianChild
		if err := models.DB.Where("guardian_id = ? AND child_id = ?", link.GuardianID, link.ChildID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&link).Error; err != nil {
				stdLog.Printf("Failed to link guardian %d to child %d: %v", link.GuardianID, link.ChildID, err)
			} else {
				stdLog.Printf("Linked guardian %d to child %d", link.GuardianID, link.ChildID)
			}
		} else {
			stdLog.Printf("Guardian %d already linked to child %d", link.GuardianID, link.ChildID)
		}
	}

	// 添加演示公告
	var manager models.Staff
	if err := models.DB.Where("username = ?", "admin").First(&manager).Error; err != nil {
		stdLog.Printf("Failed to load manager account: %v", err)
	}
	if manager.ID != 0 {
		announcementTitle := "Welcome to the new term"
		var existing models.Announcement
		if err := models.DB.Where("title = ?", announcementTitle).First(&existing).Error; err != nil {
			now := time.Now()
			announcement := models.Announcement{
				StaffID:     manager.ID,
				Title:       announcementTitle,
				Body:        "We are delighted to welcome all families back. Please remember to update your pickup contacts in the app.",
				Audience:    constants.AnnouncementAudienceAll,
				IsPublished: true,
				PublishedAt: &now,
			}
			if err := models.DB.Create(&announcement).Error; err != nil {
				stdLog.Printf("Failed to create announcement: %v", err)
			} else {
				stdLog.Printf("Created announcement: %s", announcementTitle)
			}
		} else {
			stdLog.Printf("Announcement already exists: %s", announcementTitle)
		}
	}

	// 添加演示日报
	if manager.ID != 0 && childIDs["Oliver"] != 0 {
		updateTitle := "Lunch time"
		var existing models.DailyUpdate
		if err := models.DB.Where("child_id = ? AND title = ?", childIDs["Oliver"], updateTitle).First(&existing).Error; err != nil {
			update := models.DailyUpdate{
				ChildID:    childIDs["Oliver"],
				StaffID:    manager.ID,
				Category:   constants.DailyUpdateCategoryMeal,
				Title:      updateTitle,
				Body:       "Oliver ate all of his pasta and tried the broccoli.",
				OccurredAt: time.Now().Add(-2 * time.Hour),
			}
			if err := models.DB.Create(&update).Error; err != nil {
				stdLog.Printf("Failed to create daily update: %v", err)
			} else {
				stdLog.Printf("Created daily update: %s", updateTitle)
			}
		} else {
			stdLog.Printf("Daily update already exists: %s", updateTitle)
		}
	}

	// 添加演示账单
	if ameliaID != 0 {
		invoiceNumber := "INVSEED0001"
		var existing models.Invoice
		if err := models.DB.Where("number = ?", invoiceNumber).First(&existing).Error; err != nil {
			unitPrice, err := models.NewMoneyFromString("58.50")
			if err != nil {
				stdLog.Fatalf("Invalid unit price: %v", err)
			}
			total, err := models.NewMoneyFromString("292.50")
			if err != nil {
				stdLog.Fatalf("Invalid invoice total: %v", err)
			}
			invoice := models.Invoice{
				Number:      invoiceNumber,
				GuardianID:  ameliaID,
				ChildID:     uintPtr(childIDs["Oliver"]),
				Amount:      total,
				Currency:    "GBP",
				Status:      constants.InvoiceStatusPending,
				Description: "September childcare fees",
				DueAt:       time.Now().AddDate(0, 0, 14),
				Items: []models.InvoiceItem{
					{
						Description: "Full day session x5",
						Quantity:    5,
						UnitPrice:   unitPrice,
						Subtotal:    total,
					},
				},
			}
			if err := models.DB.Create(&invoice).Error; err != nil {
				stdLog.Printf("Failed to create invoice: %v", err)
			} else {
				stdLog.Printf("Created invoice: %s", invoiceNumber)
			}
		} else {
			stdLog.Printf("Invoice already exists: %s", invoiceNumber)
		}
	}

	fmt.Println("Seed data initialized.")
}

func uintPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
