package utils

import (
	"testing"
	"time"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		n, page, limit int
		start, end     int
	}{
		{25, 1, 10, 0, 10},
		{25, 3, 10, 20, 25},
		{25, 4, 10, 25, 25},
		{5, 0, 10, 0, 5},
	}
	for _, tt := range tests {
		start, end := PageBounds(tt.n, tt.page, tt.limit)
		if start != tt.start || end != tt.end {
			t.Errorf("PageBounds(%d, %d, %d) = [%d,%d), want [%d,%d)", tt.n, tt.page, tt.limit, start, end, tt.start, tt.end)
		}
	}
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	if a == b {
		t.Error("Expected distinct identifiers")
	}
	if !IsUUID(a) {
		t.Errorf("Expected %q to parse as UUID", a)
	}
	if IsUUID("task_1") {
		t.Error("Expected task_1 not to parse as UUID")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 8, 6, 14, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2025-08-06T14:30:00Z" {
		t.Errorf("Expected RFC3339 timestamp, got %s", got)
	}
	if got := FormatDisplayDate(ts); got != "August 6, 2025 at 02:30 PM" {
		t.Errorf("Unexpected display date %s", got)
	}
}
