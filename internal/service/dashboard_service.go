package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/cache"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
)

// ErrDashboardRangeInvalid 仪表盘时间区间不合法
var ErrDashboardRangeInvalid = errors.New("dashboard range invalid")

// DashboardService 仪表盘服务
// 说明：聚合后台首页的园所运营数据。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range    string               `json:"range"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Timezone string               `json:"timezone"`
	Currency string               `json:"currency,omitempty"`
	KPI      DashboardKPI         `json:"kpi"`
	Alerts   []DashboardAlertItem `json:"alerts"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	EnrolledChildren  int64  `json:"enrolled_children"`
	PresentToday      int64  `json:"present_today"`
	CheckedOutToday   int64  `json:"checked_out_today"`
	StillOnSite       int64  `json:"still_on_site"`
	ActivePickupCodes int64  `json:"active_pickup_codes"`
	RedeemedToday     int64  `json:"redeemed_today"`
	PendingInvoices   int64  `json:"pending_invoices"`
	OverdueInvoices   int64  `json:"overdue_invoices"`
	PendingAmount     string `json:"pending_amount"`
	NewGuardians      int64  `json:"new_guardians"`
	IncidentsToday    int64  `json:"incidents_today"`
}

// DashboardAlertItem 仪表盘告警项
type DashboardAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date            string `json:"date"`
	Present         int64  `json:"present"`
	CheckedOut      int64  `json:"checked_out"`
	PickupsIssued   int64  `json:"pickups_issued"`
	PickupsRedeemed int64  `json:"pickups_redeemed"`
}

// DashboardOccupancyResponse 班级在册响应
type DashboardOccupancyResponse struct {
	Rooms []DashboardRoomOccupancy `json:"rooms"`
}

// DashboardRoomOccupancy 班级在册统计项
type DashboardRoomOccupancy struct {
	RoomID   uint   `json:"room_id"`
	RoomName string `json:"room_name"`
	Capacity int64  `json:"capacity"`
	Enrolled int64  `json:"enrolled"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	overview, err := s.repo.GetOverview(today, window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Currency: strings.ToUpper(strings.TrimSpace(overview.Currency)),
		KPI: DashboardKPI{
			EnrolledChildren:  overview.EnrolledChildren,
			PresentToday:      overview.PresentToday,
			CheckedOutToday:   overview.CheckedOutToday,
			StillOnSite:       overview.PresentToday - overview.CheckedOutToday,
			ActivePickupCodes: overview.ActivePickupCodes,
			RedeemedToday:     overview.RedeemedToday,
			PendingInvoices:   overview.PendingInvoices,
			OverdueInvoices:   overview.OverdueInvoices,
			PendingAmount:     formatMoneyValue(overview.PendingAmount),
			NewGuardians:      overview.NewGuardians,
			IncidentsToday:    overview.IncidentsToday,
		},
		Alerts: buildDashboardAlerts(overview),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取考勤与接送趋势
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:trends:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	attendanceRows, err := s.repo.GetAttendanceTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	pickupRows, err := s.repo.GetPickupTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	points := make(map[string]*DashboardTrendPoint)
	order := make([]string, 0, len(attendanceRows)+len(pickupRows))
	ensurePoint := func(day string) *DashboardTrendPoint {
		if point, ok := points[day]; ok {
			return point
		}
		point := &DashboardTrendPoint{Date: day}
		points[day] = point
		order = append(order, day)
		return point
	}
	for _, row := range attendanceRows {
		point := ensurePoint(row.Day)
		point.Present = row.Present
		point.CheckedOut = row.CheckedOut
	}
	for _, row := range pickupRows {
		point := ensurePoint(row.Day)
		point.PickupsIssued = row.Issued
		point.PickupsRedeemed = row.Redeemed
	}

	merged := make([]DashboardTrendPoint, 0, len(order))
	for _, day := range order {
		merged = append(merged, *points[day])
	}

	response := &DashboardTrendResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   merged,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetRoomOccupancy 获取各班级在册统计
func (s *DashboardService) GetRoomOccupancy(ctx context.Context) (*DashboardOccupancyResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOccupancyResponse{}, nil
	}

	cacheKey := "dashboard:occupancy"
	var cached DashboardOccupancyResponse
	hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
	if cacheErr == nil && hit {
		return &cached, nil
	}

	rows, err := s.repo.GetRoomOccupancy()
	if err != nil {
		return nil, err
	}
	rooms := make([]DashboardRoomOccupancy, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, DashboardRoomOccupancy{
			RoomID:   row.RoomID,
			RoomName: strings.TrimSpace(row.RoomName),
			Capacity: row.Capacity,
			Enrolled: row.Enrolled,
		})
	}

	response := &DashboardOccupancyResponse{Rooms: rooms}
	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func buildDashboardAlerts(overview repository.DashboardOverviewRow) []DashboardAlertItem {
	alerts := make([]DashboardAlertItem, 0, 3)
	if overview.OverdueInvoices > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "overdue_invoices", Level: "warning", Value: overview.OverdueInvoices})
	}
	if overview.IncidentsToday > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "incidents_today", Level: "error", Value: overview.IncidentsToday})
	}
	if onSite := overview.PresentToday - overview.CheckedOutToday; onSite > 0 && overview.ActivePickupCodes == 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "on_site_without_pickup_codes", Level: "info", Value: onSite})
	}
	return alerts
}
