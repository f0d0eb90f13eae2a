package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse_SingleMessage(t *testing.T) {
	msgs := Parse("15/01/24, 10:30 - Alice: Hello https://x.com\n")

	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}

	m := msgs[0]
	if m.Sender != "Alice" {
		t.Errorf("Sender = %q, want %q", m.Sender, "Alice")
	}
	if m.Text != "Hello https://x.com" {
		t.Errorf("Text = %q, want %q", m.Text, "Hello https://x.com")
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !m.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", m.Timestamp, want)
	}
	if m.LineNum != 1 {
		t.Errorf("LineNum = %d, want 1", m.LineNum)
	}
	if m.Format != "Android 24-hour" {
		t.Errorf("Format = %q, want %q", m.Format, "Android 24-hour")
	}
}

func TestParse_DerivedFields(t *testing.T) {
	msgs := Parse("15/01/24, 22:05 - Bob: hi")
	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}

	m := msgs[0]
	if m.Year != 2024 || m.MonthNum != 1 || m.MonthName != "January" {
		t.Errorf("Year/Month = %d/%d/%s, want 2024/1/January", m.Year, m.MonthNum, m.MonthName)
	}
	if m.Day != 15 || m.DayName != "Monday" {
		t.Errorf("Day = %d %s, want 15 Monday", m.Day, m.DayName)
	}
	if m.Hour != 22 || m.Minute != 5 {
		t.Errorf("Hour:Minute = %d:%d, want 22:5", m.Hour, m.Minute)
	}
	wantDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !m.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", m.Date, wantDate)
	}
}

func TestParse_MultiLineMessage(t *testing.T) {
	content := `15/01/24, 10:30 - Alice: first line
second line
third line
15/01/24, 10:31 - Bob: reply
`
	msgs := Parse(content)

	if len(msgs) != 2 {
		t.Fatalf("Got %d messages, want 2", len(msgs))
	}
	want := "first line\nsecond line\nthird line"
	if msgs[0].Text != want {
		t.Errorf("Text = %q, want %q", msgs[0].Text, want)
	}
	if msgs[1].Text != "reply" {
		t.Errorf("Text = %q, want %q", msgs[1].Text, "reply")
	}
}

func TestParse_GroupNotification(t *testing.T) {
	content := `15/01/24, 10:00 - Alice created group "Trip"
15/01/24, 10:01 - Alice added Bob
15/01/24, 10:02 - Bob: thanks
`
	msgs := Parse(content)

	if len(msgs) != 3 {
		t.Fatalf("Got %d messages, want 3", len(msgs))
	}
	if msgs[0].Sender != GroupNotification {
		t.Errorf("Sender = %q, want %q", msgs[0].Sender, GroupNotification)
	}
	if msgs[0].Text != `Alice created group "Trip"` {
		t.Errorf("Text = %q", msgs[0].Text)
	}
	if !msgs[1].IsNotification() {
		t.Error("IsNotification() = false, want true")
	}
	if msgs[2].Sender != "Bob" {
		t.Errorf("Sender = %q, want Bob", msgs[2].Sender)
	}
}

func TestParse_DropsLinesBeforeFirstHeader(t *testing.T) {
	content := `garbage before
more garbage
15/01/24, 10:00 - Alice: hi
`
	msgs := Parse(content)

	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}
	if msgs[0].Text != "hi" {
		t.Errorf("Text = %q, want hi", msgs[0].Text)
	}
	if msgs[0].LineNum != 3 {
		t.Errorf("LineNum = %d, want 3", msgs[0].LineNum)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "no headers at all"} {
		msgs := Parse(input)
		if msgs == nil {
			t.Errorf("Parse(%q) returned nil, want empty slice", input)
		}
		if len(msgs) != 0 {
			t.Errorf("Parse(%q) = %d messages, want 0", input, len(msgs))
		}
	}
}

func TestParse_HeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   time.Time
		format string
	}{
		{
			name:   "24-hour day first",
			line:   "31/12/22, 23:59 - Alice: hi",
			want:   time.Date(2022, 12, 31, 23, 59, 0, 0, time.UTC),
			format: "Android 24-hour",
		},
		{
			name:   "12-hour narrow no-break space",
			line:   "12/31/22, 11:59\u202fPM - Alice: hi",
			want:   time.Date(2022, 12, 31, 23, 59, 0, 0, time.UTC),
			format: "Android 12-hour",
		},
		{
			name:   "12-hour plain space lower case",
			line:   "1/5/23, 9:07 am - Alice: hi",
			want:   time.Date(2023, 5, 1, 9, 7, 0, 0, time.UTC),
			format: "Android 12-hour",
		},
		{
			name:   "12-hour dotted meridiem",
			line:   "1/5/23, 12:15 p.m. - Alice: hi",
			want:   time.Date(2023, 5, 1, 12, 15, 0, 0, time.UTC),
			format: "Android 12-hour",
		},
		{
			name:   "dotted four digit year",
			line:   "31.12.2022, 08:00 - Alice: hi",
			want:   time.Date(2022, 12, 31, 8, 0, 0, 0, time.UTC),
			format: "Android 24-hour",
		},
		{
			name:   "dashed date without comma",
			line:   "31-12-2022 08:00 - Alice: hi",
			want:   time.Date(2022, 12, 31, 8, 0, 0, 0, time.UTC),
			format: "Android 24-hour",
		},
		{
			name:   "iOS bracketed with seconds",
			line:   "[31/12/22, 23:59:01] Alice: hi",
			want:   time.Date(2022, 12, 31, 23, 59, 1, 0, time.UTC),
			format: "iOS bracketed",
		},
		{
			name:   "iOS bracketed 12-hour with direction mark",
			line:   "\u200e[12/31/22, 11:59:01\u202fPM] Alice: hi",
			want:   time.Date(2022, 12, 31, 23, 59, 1, 0, time.UTC),
			format: "iOS bracketed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := Parse(tt.line)
			if len(msgs) != 1 {
				t.Fatalf("Got %d messages, want 1", len(msgs))
			}
			if !msgs[0].Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", msgs[0].Timestamp, tt.want)
			}
			if msgs[0].Format != tt.format {
				t.Errorf("Format = %q, want %q", msgs[0].Format, tt.format)
			}
			if msgs[0].Sender != "Alice" || msgs[0].Text != "hi" {
				t.Errorf("Sender/Text = %q/%q, want Alice/hi", msgs[0].Sender, msgs[0].Text)
			}
		})
	}
}

func TestParse_InvalidDateBecomesContinuation(t *testing.T) {
	content := "15/01/24, 10:00 - Alice: hi\n45/45/24, 10:00 - Bob: nope\n"
	msgs := Parse(content)

	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0].Text, "Bob: nope") {
		t.Errorf("Text = %q, want continuation to be appended", msgs[0].Text)
	}
}

func TestParse_CRLF(t *testing.T) {
	msgs := Parse("15/01/24, 10:00 - Alice: hi\r\nthere\r\n15/01/24, 10:01 - Bob: yo\r\n")

	if len(msgs) != 2 {
		t.Fatalf("Got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "hi\nthere" {
		t.Errorf("Text = %q, want %q", msgs[0].Text, "hi\nthere")
	}
}

func TestParser_DateOrder(t *testing.T) {
	line := "05/06/22, 10:00 - Alice: hi"

	tests := []struct {
		order DateOrder
		month time.Month
		day   int
	}{
		{DateOrderAuto, time.June, 5},
		{DateOrderDMY, time.June, 5},
		{DateOrderMDY, time.May, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			msgs := New(WithDateOrder(tt.order)).Parse(line)
			if len(msgs) != 1 {
				t.Fatalf("Got %d messages, want 1", len(msgs))
			}
			if msgs[0].Timestamp.Month() != tt.month || msgs[0].Timestamp.Day() != tt.day {
				t.Errorf("Date = %v, want %s %d", msgs[0].Timestamp, tt.month, tt.day)
			}
		})
	}
}

func TestParser_WithLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	msgs := New(WithLocation(loc)).Parse("15/01/24, 10:00 - Alice: hi")

	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}
	if msgs[0].Timestamp.Location() != loc {
		t.Errorf("Location = %v, want %v", msgs[0].Timestamp.Location(), loc)
	}
	if msgs[0].Hour != 10 {
		t.Errorf("Hour = %d, want 10", msgs[0].Hour)
	}
}

func TestParser_WithFormats(t *testing.T) {
	formats := DefaultHeaderFormats()
	// Only the bracketed format
	p := New(WithFormats(formats[2]))

	msgs := p.Parse("15/01/24, 10:00 - Alice: hi\n[15/01/24, 10:00:00] Bob: yo")
	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != "Bob" {
		t.Errorf("Sender = %q, want Bob", msgs[0].Sender)
	}
}

func TestParser_ParseReader(t *testing.T) {
	content := "15/01/24, 10:00 - Alice: hi\nmore\n15/01/24, 10:01 - Bob: yo\n"

	msgs, err := New().ParseReader(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	want := New().Parse(content)
	if len(msgs) != len(want) {
		t.Fatalf("Got %d messages, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i].Text != want[i].Text || msgs[i].Sender != want[i].Sender || msgs[i].LineNum != want[i].LineNum {
			t.Errorf("message %d = %+v, want %+v", i, msgs[i], want[i])
		}
	}
}

func TestParser_ParseReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ParseReader(ctx, strings.NewReader("15/01/24, 10:00 - Alice: hi\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ParseReader() error = %v, want context.Canceled", err)
	}
}

func TestParser_ParseReader_LongLine(t *testing.T) {
	long := strings.Repeat("a", 2<<20)
	content := "15/01/24, 10:00 - Alice: " + long + "\n15/01/24, 10:01 - Bob: yo"

	msgs, err := New().ParseReader(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != long {
		t.Errorf("Text has %d bytes, want %d", len(msgs[0].Text), len(long))
	}
	if msgs[1].Text != "yo" || msgs[1].LineNum != 2 {
		t.Errorf("second message = %q at line %d", msgs[1].Text, msgs[1].LineNum)
	}
}

func TestParse_BodyKeepsRawSpaces(t *testing.T) {
	content := "12/31/22, 11:59\u202fPM - Alice: a\u00a0b!\n\u00a0cont\u00a0line"

	msgs := Parse(content)
	if len(msgs) != 1 {
		t.Fatalf("Got %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != "Alice" {
		t.Errorf("Sender = %q, want Alice", msgs[0].Sender)
	}
	if want := "a\u00a0b!\n\u00a0cont\u00a0line"; msgs[0].Text != want {
		t.Errorf("Text = %q, want %q", msgs[0].Text, want)
	}

	notification := Parse("\u200e12/31/22, 11:59\u202fPM - Alice\u00a0created group\r\n")
	if len(notification) != 1 || notification[0].Text != "Alice\u00a0created group" {
		t.Errorf("notification = %+v", notification)
	}
}

func TestParticipants(t *testing.T) {
	content := `15/01/24, 10:00 - Alice added Carol
15/01/24, 10:01 - Carol: hi
15/01/24, 10:02 - Alice: hello
15/01/24, 10:03 - Carol: again
`
	got := Participants(Parse(content))
	want := []string{"Alice", "Carol"}

	if len(got) != len(want) {
		t.Fatalf("Participants() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Participants()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterBySender(t *testing.T) {
	msgs := Parse("15/01/24, 10:00 - Alice: a\n15/01/24, 10:01 - Bob: b\n15/01/24, 10:02 - Alice: c\n")

	got := FilterBySender(msgs, "Alice")
	if len(got) != 2 {
		t.Fatalf("Got %d messages, want 2", len(got))
	}
	if got[0].Text != "a" || got[1].Text != "c" {
		t.Errorf("Texts = %q, %q, want a, c", got[0].Text, got[1].Text)
	}

	if got := FilterBySender(msgs, "Nobody"); len(got) != 0 {
		t.Errorf("Got %d messages for unknown sender, want 0", len(got))
	}
}
