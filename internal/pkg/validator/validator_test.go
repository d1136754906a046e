package validator

import (
	"errors"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidYearMonth(t *testing.T) {
	valid := []string{"2025-01", "1999-12"}
	invalid := []string{"2025-13", "2025-1", "2025/01", "", "2025-01-01"}
	for _, s := range valid {
		if !IsValidYearMonth(s) {
			t.Errorf("IsValidYearMonth(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidYearMonth(s) {
			t.Errorf("IsValidYearMonth(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"07:30", "00:00", "23:59"}
	invalid := []string{"7:30", "24:00", "12:60", "", "12h30"}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "phone": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

type structSample struct {
	Name  string  `json:"name" validate:"required"`
	Date  string  `json:"date" validate:"required,isodate"`
	Month string  `json:"month" validate:"omitempty,yearmonth"`
	Qty   float64 `json:"quantity" validate:"gt=0"`
	Kind  string  `json:"kind" validate:"oneof=in out"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(structSample{Date: "2025-02-30", Month: "2025-13", Kind: "sideways"})

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error = %v, want ValidationErrors", err)
	}
	got := errs.ToMap()
	for _, field := range []string{"name", "date", "month", "quantity", "kind"} {
		if _, ok := got[field]; !ok {
			t.Errorf("Struct() missing error for %q in %v", field, got)
		}
	}
	if got["name"] != "is required" {
		t.Errorf("name message = %q, want %q", got["name"], "is required")
	}
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(structSample{Name: "x", Date: "2025-02-28", Qty: 1, Kind: "in"})
	if err != nil {
		t.Errorf("Struct() = %v, want nil", err)
	}
}
