package shared_test

import (
	"strings"
	"testing"

	"github.com/JokoCodes/service-scheduler/shared"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	"github.com/JokoCodes/service-scheduler/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns one page", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns one page", total: 100, limit: 0, expected: 1},
		{name: "exact division", total: 20, limit: 10, expected: 2},
		{name: "remainder rounds up", total: 21, limit: 10, expected: 3},
		{name: "single item", total: 1, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.CalculateTotalPage(tt.total, tt.limit); got != tt.expected {
				t.Errorf("expected %d pages, got %d", tt.expected, got)
			}
		})
	}
}

func TestConvertStringToBool(t *testing.T) {
	if got := shared.ConvertStringToBool(""); got != nil {
		t.Error("expected nil for empty string")
	}

	if got := shared.ConvertStringToBool("true"); got == nil || !*got {
		t.Error("expected true")
	}

	if got := shared.ConvertStringToBool("0"); got == nil || *got {
		t.Error("expected false")
	}

	if got := shared.ConvertStringToBool("not-a-bool"); got != nil {
		t.Error("expected nil for invalid input")
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Role  string `db:"role"`
		Notes string `db:"notes"`
		Skip  string
	}

	fields := shared.TransformFields(update{Role: "lead", Skip: "ignored"}, "admin-1")

	if fields["role"] != "lead" {
		t.Errorf("expected role to be set, got %v", fields["role"])
	}

	if _, ok := fields["notes"]; ok {
		t.Error("expected zero-valued notes to be skipped")
	}

	if fields[constant.FieldModifiedBy] != "admin-1" {
		t.Errorf("expected modified_by stamp, got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at stamp")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("abc-123", "id", "assignments")

	where, args := group.GetWhereClause()
	if where != "(assignments.id = :id)" {
		t.Errorf("unexpected where clause: %s", where)
	}

	if args["id"] != "abc-123" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildCacheKey(t *testing.T) {
	key := shared.BuildCacheKey("staffing:summary", "booking-1")
	if key != "staffing:summary:booking-1" {
		t.Errorf("unexpected cache key: %s", key)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filterA := shared.FilterByID("b-1", "booking_id", "assignments")
	filterB := shared.FilterByID("b-2", "booking_id", "assignments")

	keyA := shared.BuildCacheKeyWithQuery("staffing:list", params, filterA)
	keyB := shared.BuildCacheKeyWithQuery("staffing:list", params, filterB)

	if keyA == keyB {
		t.Error("expected distinct filters to produce distinct cache keys")
	}

	if !strings.HasPrefix(keyA, "staffing:list:") {
		t.Errorf("expected prefix to survive, got %s", keyA)
	}
}
