package game

import "fmt"

// MsgPriority classifies a comms log entry.
type MsgPriority uint8

const (
	MsgInfo     MsgPriority = iota // routine turn flow
	MsgWarning                     // shortages, lost battles
	MsgCritical                    // starvation, lost planets, defeat
	MsgEconomy                     // income, taxes, construction
	MsgMilitary                    // purchases, battles, captures
	MsgPriorityCount
)

var msgPriorityNames = [MsgPriorityCount]string{"info", "warning", "critical", "economy", "military"}

func (p MsgPriority) String() string {
	if p < MsgPriorityCount {
		return msgPriorityNames[p]
	}
	return "unknown"
}

// Message is a single entry in the comms log.
type Message struct {
	Turn     int
	Text     string
	Priority MsgPriority
}

// MessageLog is a bounded FIFO of messages.
type MessageLog struct {
	Messages []Message
	maxSize  int
	turn     int
}

// NewMessageLog creates a log that keeps the most recent maxSize messages.
func NewMessageLog(maxSize int) *MessageLog {
	maxSize = max(1, maxSize)
	return &MessageLog{
		Messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// SetTurn stamps subsequent messages with turn.
func (l *MessageLog) SetTurn(turn int) { l.turn = turn }

// Add appends a message, evicting the oldest if full.
func (l *MessageLog) Add(text string, priority MsgPriority) {
	msg := Message{Turn: l.turn, Text: text, Priority: priority}
	if len(l.Messages) >= l.maxSize {
		copy(l.Messages, l.Messages[1:])
		l.Messages[len(l.Messages)-1] = msg
		return
	}
	l.Messages = append(l.Messages, msg)
}

// Addf formats and appends a message.
func (l *MessageLog) Addf(priority MsgPriority, format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...), priority)
}

// Recent returns the last n messages (or fewer if the log is shorter).
func (l *MessageLog) Recent(n int) []Message {
	n = max(0, min(n, len(l.Messages)))
	return l.Messages[len(l.Messages)-n:]
}

// Filter returns the messages with the given priority, oldest first.
func (l *MessageLog) Filter(priority MsgPriority) []Message {
	var out []Message
	for _, m := range l.Messages {
		if m.Priority == priority {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of stored messages.
func (l *MessageLog) Len() int { return len(l.Messages) }
