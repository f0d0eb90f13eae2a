package parser

import "sort"

// Participants returns the distinct senders in msgs, sorted, without the
// group notification sentinel.
func Participants(msgs []Message) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for i := range msgs {
		sender := msgs[i].Sender
		if sender == GroupNotification || seen[sender] {
			continue
		}
		seen[sender] = true
		result = append(result, sender)
	}

	sort.Strings(result)
	return result
}

// FilterBySender returns the messages sent by sender, in their original order.
// The input slice is not modified.
func FilterBySender(msgs []Message, sender string) []Message {
	result := make([]Message, 0)
	for i := range msgs {
		if msgs[i].Sender == sender {
			result = append(result, msgs[i])
		}
	}
	return result
}
