package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func newJSONRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeExpense(t *testing.T) {
	rv := NewRequestValidator()

	tests := []struct {
		name      string
		body      string
		want      core.Expense
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid expense",
			body: `{"amount": 42.50, "category": "food", "date": "2024-03-15"}`,
			want: core.Expense{Amount: 42.5, Category: "food", Date: core.NewDate(2024, 3, 15)},
		},
		{
			name: "client id is ignored",
			body: `{"id": 99, "amount": 1, "category": "x", "date": "2024-01-01"}`,
			want: core.Expense{Amount: 1, Category: "x", Date: core.NewDate(2024, 1, 1)},
		},
		{
			name: "negative amount and empty category are accepted",
			body: `{"amount": -3.5, "category": "", "date": "2023-12-31"}`,
			want: core.Expense{Amount: -3.5, Category: "", Date: core.NewDate(2023, 12, 31)},
		},
		{
			name: "category of exactly 200 characters",
			body: `{"amount": 1, "category": "` + strings.Repeat("é", 200) + `", "date": "2024-01-01"}`,
			want: core.Expense{Amount: 1, Category: strings.Repeat("é", 200), Date: core.NewDate(2024, 1, 1)},
		},
		{name: "empty body", body: ``, wantErr: true, errSubstr: "request body is required"},
		{name: "malformed json", body: `{"amount": `, wantErr: true, errSubstr: "not valid JSON"},
		{name: "array body", body: `[1, 2]`, wantErr: true, errSubstr: "JSON object"},
		{name: "string amount", body: `{"amount": "abc", "category": "food", "date": "2024-03-15"}`, wantErr: true, errSubstr: "amount must be a number"},
		{name: "missing amount", body: `{"category": "food", "date": "2024-03-15"}`, wantErr: true, errSubstr: "amount"},
		{name: "missing category", body: `{"amount": 1, "date": "2024-03-15"}`, wantErr: true, errSubstr: "category"},
		{name: "missing date", body: `{"amount": 1, "category": "food"}`, wantErr: true, errSubstr: "date"},
		{name: "category too long", body: `{"amount": 1, "category": "` + strings.Repeat("a", 201) + `", "date": "2024-03-15"}`, wantErr: true, errSubstr: "category"},
		{name: "malformed date", body: `{"amount": 1, "category": "food", "date": "15/03/2024"}`, wantErr: true, errSubstr: "date"},
		{name: "impossible date", body: `{"amount": 1, "category": "food", "date": "2024-02-30"}`, wantErr: true, errSubstr: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rv.DecodeExpense(newJSONRequest(tt.body))
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("DecodeExpense() error = %v, want ValidationError", err)
				}
				if !strings.Contains(verr.Message, tt.errSubstr) {
					t.Errorf("DecodeExpense() error = %q, want substring %q", verr.Message, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeExpense() unexpected error: %v", err)
			}
			if got.Amount != tt.want.Amount || got.Category != tt.want.Category || got.Date.String() != tt.want.Date.String() {
				t.Errorf("DecodeExpense() = %+v, want %+v", got, tt.want)
			}
			if got.ID != 0 {
				t.Errorf("DecodeExpense() ID = %d, want 0", got.ID)
			}
		})
	}
}

func TestRequestValidatorJoinsMessages(t *testing.T) {
	rv := NewRequestValidator()
	err := rv.Struct(ExpenseRequest{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Struct() error = %v, want ValidationError", err)
	}
	for _, field := range []string{"amount", "category", "date"} {
		if !strings.Contains(verr.Message, field) {
			t.Errorf("message %q does not mention %s", verr.Message, field)
		}
	}
}

func TestPathInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"2024", 2024, false},
		{"3", 3, false},
		{"13", 13, false},
		{"-1", -1, false},
		{"march", 0, true},
		{"3.5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/expenses/month/x/y", nil)
			req.SetPathValue("month", tt.raw)

			got, err := PathInt(req, "month")
			if (err != nil) != tt.wantErr {
				t.Fatalf("PathInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PathInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryFloat(t *testing.T) {
	tests := []struct {
		query   string
		want    float64
		wantErr bool
	}{
		{"salary=1000", 1000, false},
		{"salary=-50.25", -50.25, false},
		{"salary=0", 0, false},
		{"", 0, true},
		{"salary=", 0, true},
		{"salary=lots", 0, true},
		{"salary=NaN", 0, true},
		{"salary=Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/totals?"+tt.query, nil)

			got, err := QueryFloat(req, "salary")
			if (err != nil) != tt.wantErr {
				t.Fatalf("QueryFloat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("QueryFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}
