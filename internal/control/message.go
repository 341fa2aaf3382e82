// Package control applies runtime reconfiguration messages to the clock:
// role colors go to the palette and everything else to the display sink.
package control

import (
	"errors"
	"strings"

	"github.com/fkcurrie/wordclock-golang/pkg/wordclock"
)

// DefaultRoot is the topic prefix used when none is configured.
const DefaultRoot = "wordclock"

// ErrUnknownTopic is returned for messages no component accepts.
var ErrUnknownTopic = errors.New("unknown topic")

// Message is one reconfiguration request.
type Message struct {
	Topic   string `json:"topic"`
	Payload string `json:"payload"`
}

// Ack answers a Message.
type Ack struct {
	Topic string `json:"topic"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ColorTopic returns the topic that sets the color of role.
func ColorTopic(root string, role wordclock.Role) string {
	return root + "/clock/" + role.String()
}

// colorRole maps a topic back to its role.
func colorRole(root, topic string) (wordclock.Role, bool) {
	prefix := root + "/clock/"
	if !strings.HasPrefix(topic, prefix) {
		return 0, false
	}
	role, err := wordclock.ParseRole(strings.TrimPrefix(topic, prefix))
	if err != nil {
		return 0, false
	}
	return role, true
}
