package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"smart-va/internal/models"
)

// Responder produces the answer to one chat turn
type Responder interface {
	Name() string
	Respond(ctx context.Context, input models.ChatInput) (*models.ChatReply, error)
}

// ChatService answers chat turns with the primary responder when one is
// configured and falls back to the rule-based extractor on error or timeout
type ChatService struct {
	primary  Responder // nil when no model is configured
	fallback *Extractor
	timeout  time.Duration
}

// NewChatService creates a chat service. primary may be nil.
func NewChatService(primary Responder, fallback *Extractor, timeout time.Duration) *ChatService {
	if fallback == nil {
		fallback = NewExtractor()
	}
	return &ChatService{primary: primary, fallback: fallback, timeout: timeout}
}

// PrimaryName reports the configured primary responder, or "" when none
func (s *ChatService) PrimaryName() string {
	if s.primary == nil {
		return ""
	}
	return s.primary.Name()
}

// Fallback returns the rule-based responder
func (s *ChatService) Fallback() *Extractor {
	return s.fallback
}

// Reply answers one chat turn. It never fails: the second return value names
// the responder that produced the reply.
func (s *ChatService) Reply(ctx context.Context, input models.ChatInput) (models.ChatReply, string) {
	if s.primary != nil {
		reply, err := s.callPrimary(ctx, input)
		if err == nil {
			return *reply, s.primary.Name()
		}
		log.Printf("WARNING: [CHAT] %s responder failed, falling back to %s: %v", s.primary.Name(), s.fallback.Name(), err)
	}
	return s.fallback.Reply(input.Message, input.State), s.fallback.Name()
}

type primaryResult struct {
	reply *models.ChatReply
	err   error
}

// callPrimary races the primary responder against the timeout
func (s *ChatService) callPrimary(ctx context.Context, input models.ChatInput) (*models.ChatReply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan primaryResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- primaryResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		reply, err := s.primary.Respond(ctx, input)
		if err == nil && reply == nil {
			err = fmt.Errorf("empty reply")
		}
		done <- primaryResult{reply: reply, err: err}
	}()

	select {
	case res := <-done:
		return res.reply, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%s call timeout: %w", s.primary.Name(), ctx.Err())
	}
}
