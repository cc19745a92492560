package models

import (
	"encoding/json"
	"time"
)

// User is the identity returned by the auth service's /me endpoint.
type User struct {
	ID       string `json:"-"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// DisplayName prefers the full name, falling back to the email address.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// UnmarshalJSON accepts string or numeric user ids.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       flexID `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = string(raw.ID)
	u.Email = raw.Email
	u.FullName = raw.FullName
	return nil
}

// Answer is the ephemeral result of one query. The durable copy lives in the
// conversation history fetched separately.
type Answer struct {
	Answer  string `json:"answer"`
	Sources int    `json:"sources"`
}

// ConversationEntry is one question/answer pair from a document's history.
type ConversationEntry struct {
	Question string
	Answer   string
	Sources  int
	AskedAt  time.Time
}

func (e *ConversationEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Question  string   `json:"question"`
		Answer    string   `json:"answer"`
		Sources   int      `json:"sources"`
		AskedAt   flexTime `json:"asked_at"`
		CreatedAt flexTime `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Question = raw.Question
	e.Answer = raw.Answer
	e.Sources = raw.Sources
	e.AskedAt = time.Time(raw.AskedAt)
	if e.AskedAt.IsZero() {
		e.AskedAt = time.Time(raw.CreatedAt)
	}
	return nil
}
