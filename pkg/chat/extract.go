package chat

import "regexp"

// namePattern spots a self-introduced name in a user message.
var namePattern = regexp.MustCompile(`(?i)my name is ([A-Za-z]+)`)

// ExtractUserContext scans user-authored messages for facts worth
// remembering. The first match within the batch wins; an empty result
// means "no update", never "clear".
func ExtractUserContext(messages []Message) UserContext {
	extracted := UserContext{}

	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		if _, ok := extracted["name"]; ok {
			break
		}
		if match := namePattern.FindStringSubmatch(msg.Content); match != nil {
			extracted["name"] = match[1]
		}
	}

	return extracted
}
