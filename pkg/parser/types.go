// Package parser turns exported chat-log text into structured message records.
package parser

import "time"

// GroupNotification is the sender recorded for system messages (joins,
// leaves, subject changes) that carry no participant name.
const GroupNotification = "group_notification"

// Message represents a single chat message with calendar fields derived
// from its timestamp.
type Message struct {
	// Timestamp is the parsed date and time of the message header.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the participant name, or GroupNotification.
	Sender string `json:"sender"`

	// Text is the message body. Continuation lines are joined with "\n".
	Text string `json:"text"`

	Year      int       `json:"year"`
	MonthName string    `json:"month_name"`
	MonthNum  int       `json:"month_num"`
	Day       int       `json:"day"`
	DayName   string    `json:"day_name"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	Date      time.Time `json:"date"`

	// LineNum is the 1-based line number of the header line.
	LineNum int `json:"line_num"`

	// Format is the name of the header format that matched.
	Format string `json:"format"`
}

// IsNotification reports whether the message is a group notification.
func (m *Message) IsNotification() bool {
	return m.Sender == GroupNotification
}

func newMessage(ts time.Time, sender, text string) Message {
	return Message{
		Timestamp: ts,
		Sender:    sender,
		Text:      text,
		Year:      ts.Year(),
		MonthName: ts.Month().String(),
		MonthNum:  int(ts.Month()),
		Day:       ts.Day(),
		DayName:   ts.Weekday().String(),
		Hour:      ts.Hour(),
		Minute:    ts.Minute(),
		Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
	}
}
