package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/14kear/livepoll/internal/domain/models"
)

// Event names on the wire.
const (
	EventJoinPoll   = "join-poll"
	EventLeavePoll  = "leave-poll"
	EventJoinedPoll = "joined-poll"
	EventLeftPoll   = "left-poll"
	EventVoteUpdate = "vote-update"
	EventPollUpdate = "poll-update"
	EventError      = "error"
)

// Event is one frame: {"event": "...", "data": {...}}.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type VoteUpdate struct {
	models.Tally
	Timestamp time.Time `json:"timestamp"`
}

type PollUpdate struct {
	PollID     int64     `json:"pollId"`
	UpdateType string    `json:"updateType"`
	Data       any       `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type RoomPayload struct {
	PollID PollID `json:"pollId"`
}

func errorEvent(msg string) Event {
	return Event{Name: EventError, Data: ErrorPayload{Message: msg}}
}

// PollID accepts both 42 and "42" when decoded from JSON.
type PollID int64

func (id *PollID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid poll id %s", string(b))
	}
	*id = PollID(v)

	return nil
}

func (id PollID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(id))
}

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
