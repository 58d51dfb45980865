package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// QuizPayloadKey returns the cache key for a quiz's public (redacted) payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// AttemptMonitorChannel returns the Redis PubSub channel for completed-attempt events.
func (r *CacheKeyStruct) AttemptMonitorChannel() string {
	return "attempts:completed"
}

var CacheKey = NewCacheKeyStruct()
