package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/logger"
	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/provider"

	"github.com/robfig/cron/v3"
)

const (
	// 每日 19:05 日终关闭当天未离园的考勤记录
	dayCloseSpec = "5 19 * * *"
	// 每日 01:30 清理超过保留期的终态接送码
	pickupSweepSpec = "30 1 * * *"
)

// Service 定时任务服务
type Service struct {
	name      string
	cron      *cron.Cron
	container *provider.Container
}

// NewService 创建定时任务服务
func NewService(c *provider.Container) (*Service, error) {
	if c == nil {
		return nil, errors.New("container is nil")
	}
	s := &Service{
		name:      "jobs",
		cron:      cron.New(),
		container: c,
	}
	if err := s.register(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "jobs"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("jobs not initialized")
	}
	s.cron.Start()
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	return nil
}

func (s *Service) register() error {
	if _, err := s.cron.AddFunc(dayCloseSpec, s.runAttendanceDayClose); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(pickupSweepSpec, s.runPickupRetentionSweep); err != nil {
		return err
	}
	return nil
}

func (s *Service) runAttendanceDayClose() {
	if s.container == nil || s.container.AttendanceService == nil {
		return
	}
	now := time.Now()
	closed, err := s.container.AttendanceService.CloseDay(now, now)
	if err != nil {
		logger.Warnw("jobs_attendance_day_close_failed", "error", err)
		return
	}
	if closed > 0 {
		logger.Infow("jobs_attendance_day_close_done", "closed_count", closed)
	}
}

func (s *Service) runPickupRetentionSweep() {
	if s.container == nil || s.container.PickupService == nil {
		return
	}
	deleted, err := s.container.PickupService.CleanupFinished(time.Now())
	if err != nil {
		logger.Warnw("jobs_pickup_retention_sweep_failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Infow("jobs_pickup_retention_sweep_done", "deleted_count", deleted)
	}
}
