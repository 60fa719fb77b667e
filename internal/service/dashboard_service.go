package service

import (
	"context"
	"time"

	"fertilabel/internal/dto"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/jinzhu/now"
)

// DashboardService summarises the current shift.
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	queue    repository.QueueRepository
	history  repository.HistoryRepository
	settings Settings
	clock    func() time.Time
}

func NewDashboardService(queue repository.QueueRepository, history repository.HistoryRepository, settings Settings) DashboardService {
	return &dashboardService{queue: queue, history: history, settings: settings, clock: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	items, err := s.queue.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.DashboardResponse{QueueTotal: len(items)}
	for _, it := range items {
		switch it.Status {
		case model.QueuePending:
			resp.QueuePending++
		case model.QueueLabelIssued:
			resp.QueueLabelIssued++
		case model.QueueCompleted:
			resp.QueueCompleted++
		}
	}

	dayStart := now.With(s.clock().In(s.settings.location())).BeginningOfDay()
	resp.DayStart = dayStart.Format(time.RFC3339)

	if resp.LabelsToday, err = s.history.CountSince(ctx, dayStart, false); err != nil {
		return nil, err
	}
	if resp.TermsToday, err = s.history.CountSince(ctx, dayStart, true); err != nil {
		return nil, err
	}
	return resp, nil
}
