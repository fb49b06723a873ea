package dto_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JokoCodes/service-scheduler/shared/constant"
	"github.com/JokoCodes/service-scheduler/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name: "eq with table",
			filter: dto.Filter{
				Field:    "booking_id",
				Operator: dto.FilterOperatorEq,
				Value:    "b-1",
				Table:    "assignments",
			},
			wantWhere: "assignments.booking_id = :booking_id",
			wantArgs:  map[string]any{"booking_id": "b-1"},
		},
		{
			name: "in with slice expands named args",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorIn,
				Value:    []string{"assigned", "accepted"},
				Table:    "assignments",
			},
			wantWhere: "assignments.status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "assigned", "status_1": "accepted"},
		},
		{
			name: "not eq",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorNotEq,
				Value:    "cancelled",
			},
			wantWhere: "status != :status",
			wantArgs:  map[string]any{"status": "cancelled"},
		},
		{
			name: "is null",
			filter: dto.Filter{
				Field:    "sent_at",
				Operator: dto.FilterIsNull,
			},
			wantWhere: "sent_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name: "unknown operator yields empty clause",
			filter: dto.Filter{
				Field:    "status",
				Operator: "between",
			},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "booking_id", Operator: dto.FilterOperatorEq, Value: "b-1"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "assigned", ArgName: "status_assigned"},
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "accepted", ArgName: "status_accepted"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(booking_id = :booking_id AND (status = :status_assigned OR status = :status_accepted))", where)
	assert.Len(t, args, 3)
}

func TestFilterGroup_DefaultsToAnd(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "a", Operator: dto.FilterOperatorEq, Value: 1},
			dto.Filter{Field: "b", Operator: dto.FilterOperatorEq, Value: 2},
		},
	}

	where, _ := group.GetWhereClause()
	assert.Equal(t, "(a = :a AND b = :b)", where)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		defaultRequest bool
		want           dto.QueryParams
	}{
		{
			name:           "explicit values",
			url:            "/v1/bookings?page=2&limit=25&sort_by=booking_date&sort_dir=asc",
			defaultRequest: true,
			want:           dto.QueryParams{Page: 2, Limit: 25, SortBy: "booking_date", SortDir: "ASC"},
		},
		{
			name:           "defaults applied",
			url:            "/v1/bookings",
			defaultRequest: true,
			want:           dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "no defaults",
			url:            "/v1/bookings",
			defaultRequest: false,
			want:           dto.QueryParams{},
		},
		{
			name:           "invalid values ignored",
			url:            "/v1/bookings?page=-1&limit=abc&sort_dir=sideways",
			defaultRequest: true,
			want:           dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.want, params)
		})
	}
}
