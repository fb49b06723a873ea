package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusAssigned, model.StatusAccepted, true},
		{model.StatusAssigned, model.StatusDeclined, true},
		{model.StatusAssigned, model.StatusCancelled, true},
		{model.StatusAssigned, model.StatusCompleted, false},
		{model.StatusAccepted, model.StatusCompleted, true},
		{model.StatusAccepted, model.StatusCancelled, true},
		{model.StatusAccepted, model.StatusDeclined, false},
		{model.StatusAccepted, model.StatusAssigned, false},
		{model.StatusDeclined, model.StatusAccepted, false},
		{model.StatusDeclined, model.StatusCancelled, false},
		{model.StatusCompleted, model.StatusCancelled, false},
		{model.StatusCancelled, model.StatusAssigned, false},
		{model.StatusCancelled, model.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.IsTerminal(model.StatusAssigned))
	assert.False(t, model.IsTerminal(model.StatusAccepted))
	assert.True(t, model.IsTerminal(model.StatusDeclined))
	assert.True(t, model.IsTerminal(model.StatusCompleted))
	assert.True(t, model.IsTerminal(model.StatusCancelled))
}

func TestStaffingCounts_Band(t *testing.T) {
	tests := []struct {
		name   string
		counts model.StaffingCounts
		want   string
	}{
		{
			name:   "no accepted staff",
			counts: model.StaffingCounts{Required: 3, Assigned: 2},
			want:   model.BandUnstaffed,
		},
		{
			name:   "some accepted staff",
			counts: model.StaffingCounts{Required: 3, Assigned: 3, Accepted: 2},
			want:   model.BandPartiallyStaffed,
		},
		{
			name:   "target met",
			counts: model.StaffingCounts{Required: 3, Assigned: 3, Accepted: 3, Completed: 1},
			want:   model.BandFullyStaffed,
		},
		{
			name:   "target exceeded after requirement lowered",
			counts: model.StaffingCounts{Required: 1, Assigned: 2, Accepted: 2},
			want:   model.BandFullyStaffed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.counts.Band())
		})
	}
}
