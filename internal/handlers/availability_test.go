package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandBatchProducesDayMajorGrid(t *testing.T) {
	req := BatchAvailabilityRequest{
		DoctorID: "doc-1",
		Days:     []int{1, 3},
		Slots: []BatchSlot{
			{StartTime: "09:00", EndTime: "09:30"},
			{StartTime: "09:30", EndTime: "10:00"},
			{StartTime: "10:00", EndTime: "10:30"},
		},
	}

	rules := expandBatch(req)
	assert.Len(t, rules, 6, "2 days x 3 slots")

	assert.Equal(t, 1, rules[0].DayOfWeek)
	assert.Equal(t, "09:00", rules[0].StartTime)
	assert.Equal(t, 1, rules[2].DayOfWeek)
	assert.Equal(t, 3, rules[3].DayOfWeek)
	assert.Equal(t, "09:00", rules[3].StartTime)

	for _, r := range rules {
		assert.Equal(t, "doc-1", r.DoctorID)
		assert.True(t, r.IsActive)
	}
}

func TestSummarizeBatchCountsPartialFailure(t *testing.T) {
	results := []BatchItemResult{
		{DayOfWeek: 1, OK: true},
		{DayOfWeek: 1, OK: true},
		{DayOfWeek: 1, OK: true},
		{DayOfWeek: 3, OK: true},
		{DayOfWeek: 3, OK: true},
		{DayOfWeek: 3, OK: false, Error: "failed to create rule: connection reset"},
	}

	resp := summarizeBatch(results)
	assert.Equal(t, 6, resp.Requested)
	assert.Equal(t, 5, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Results, 6)
}

func TestSummarizeBatchEmpty(t *testing.T) {
	resp := summarizeBatch(nil)
	assert.Equal(t, 0, resp.Requested)
	assert.Equal(t, 0, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)
}
