package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "calendar date", in: `"2024-01-01"`, want: NewDate(2024, time.January, 1)},
		{name: "browser timestamp", in: `"2024-03-15T00:00:00.000Z"`, want: NewDate(2024, time.March, 15)},
		{name: "null", in: `null`, want: Date{}},
		{name: "garbage", in: `"next tuesday"`, wantErr: true},
		{name: "number", in: `20240101`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Date
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateMarshal(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.December, 31))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-12-31"` {
		t.Errorf("got %s", b)
	}

	b, err = json.Marshal(Date{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("zero date: got %s, want null", b)
	}
}

func TestDateScan(t *testing.T) {
	want := NewDate(2024, time.February, 29)
	offset := time.FixedZone("", 3*3600)

	inputs := map[string]interface{}{
		"time with offset": time.Date(2024, time.February, 29, 0, 0, 0, 0, offset),
		"text":             "2024-02-29 00:00:00+00:00",
		"bytes":            []byte("2024-02-29"),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var got Date
			if err := got.Scan(in); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}

	var null Date
	if err := null.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !null.IsZero() {
		t.Errorf("expected zero date from NULL, got %v", null)
	}
}

func TestDateDaysUntil(t *testing.T) {
	today := NewDate(2024, time.February, 27)
	if got := today.DaysUntil(NewDate(2024, time.March, 1)); got != 3 {
		t.Errorf("DaysUntil across leap day = %d, want 3", got)
	}
	if got := today.DaysUntil(today.AddDays(-2)); got != -2 {
		t.Errorf("DaysUntil in the past = %d, want -2", got)
	}
}

func TestDateDaysUntilFarApart(t *testing.T) {
	today := NewDate(2024, time.June, 10)
	ancient := NewDate(1500, time.June, 10)

	got := today.DaysUntil(ancient)
	if got > -191000 || got < -192000 {
		t.Errorf("DaysUntil(1500-06-10) = %d, want about -191,000", got)
	}
	if back := ancient.DaysUntil(today); back != -got {
		t.Errorf("DaysUntil is not antisymmetric: %d vs %d", back, got)
	}
}

func TestDateYearOneIsNoDate(t *testing.T) {
	var got Date
	if err := json.Unmarshal([]byte(`"0001-01-01"`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero date, got %v", got)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("0001-01-01 round trip = %s, want null", b)
	}
}
