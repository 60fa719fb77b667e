package service

import (
	"context"
	"testing"
	"time"

	"fertilabel/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	done := queueItem(2, "BBB2B22", "UREIA", "1")
	done.Status = model.QueueCompleted
	issued := queueItem(3, "CCC3C33", "UREIA", "1")
	issued.Status = model.QueueLabelIssued
	queue := newStubQueueRepo(queueItem(1, "AAA1A11", "UREIA", "1"), done, issued)

	today := fixedClock()
	history := newStubHistoryRepo(
		model.GenerationRecord{ID: uuid.New(), UpdatedAt: today, LabelGenerated: ptr(true), TermGenerated: true},
		model.GenerationRecord{ID: uuid.New(), UpdatedAt: today.Add(-time.Hour), LabelGenerated: ptr(true)},
		model.GenerationRecord{ID: uuid.New(), UpdatedAt: today.AddDate(0, 0, -1), LabelGenerated: ptr(true), TermGenerated: true},
	)

	svc := NewDashboardService(queue, history, testSettings()).(*dashboardService)
	svc.clock = fixedClock

	resp, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.QueueTotal)
	assert.Equal(t, 1, resp.QueuePending)
	assert.Equal(t, 1, resp.QueueLabelIssued)
	assert.Equal(t, 1, resp.QueueCompleted)
	assert.Equal(t, int64(2), resp.LabelsToday)
	assert.Equal(t, int64(1), resp.TermsToday)
	assert.Equal(t, "2026-03-09T00:00:00Z", resp.DayStart)
}
