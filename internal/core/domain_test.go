package core

import "testing"

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 2, 29), true}, // leap day
		{NewDate(2023, 2, 29), false},
		{NewDate(2024, 2, 30), false},
		{NewDate(2024, 4, 31), false},
		{NewDate(2024, 13, 1), false},
		{NewDate(2024, 0, 1), false},
		{Date{}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error for %v", i, tc.d)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, 3, 15)
	b := NewDate(2024, 3, 16)
	c := NewDate(2024, 4, 1)
	if !a.Before(b) || !b.Before(c) || b.Before(a) {
		t.Fatalf("Before ordering broken")
	}
	if !c.After(a) || a.After(a) {
		t.Fatalf("After ordering broken")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil || d != NewDate(2024, 3, 5) {
		t.Fatalf("ParseDate = %v, %v", d, err)
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Fatalf("expected error for non-ISO format")
	}
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
	if got := d.String(); got != "2024-03-05" {
		t.Fatalf("String = %q", got)
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{Bank, Credit, Cash} {
		if !m.Valid() {
			t.Fatalf("%s should be valid", m)
		}
	}
	if PaymentMethod("wire").Valid() || PaymentMethod("").Valid() {
		t.Fatalf("unknown methods should be invalid")
	}
}
