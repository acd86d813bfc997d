package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"10", 1000, false},
		{"10.5", 1050, false},
		{"10.50", 1050, false},
		{"0.01", 1, false},
		{"3,14", 314, false},
		{" 42.00 ", 4200, false},
		{"10.554", 1055, false},
		{"10.555", 1056, false},
		{"10.559", 1056, false},
		{".5", 50, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"1.2.3", 0, true},
		{"1a.50", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDecimalToCents(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
			} else if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseSignedDecimalToCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"-250.75", -25075, false},
		{"-0.01", -1, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"+5", 500, false},
		{"1500", 150000, false},
		{"", 0, true},
		{"--5", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSignedDecimalToCents(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSignedDecimalToCents(%q) = %d, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSignedDecimalToCents(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSignedDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{1050, "10.50"},
		{-25075, "-250.75"},
		{100000, "1000.00"},
	}
	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 1500}
	b := Money{Cents: 400}

	if got := a.Add(b); got.Cents != 1900 {
		t.Errorf("Add = %d, want 1900", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 1100 {
		t.Errorf("Sub = %d, want 1100", got.Cents)
	}
	if got := a.Neg(); got.Cents != -1500 {
		t.Errorf("Neg = %d, want -1500", got.Cents)
	}
	if got := (Money{Cents: -300}).Abs(); got.Cents != 300 {
		t.Errorf("Abs = %d, want 300", got.Cents)
	}
	if got := a.Units(); got != 15.0 {
		t.Errorf("Units = %v, want 15", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Errorf("positive amount rejected: %v", err)
	}
	if err := (Money{}).Validate(); err == nil {
		t.Error("zero amount accepted")
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Error("negative amount accepted")
	}
}
