package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/catalog"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/matcher"
	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

const fallbackReply = "Sorry, I didn't get that. Try asking about one of our products, prices or delivery."

// ChatReply is the bot's answer to one user message.
type ChatReply struct {
	Text    string          `json:"text"`
	Product *domain.Product `json:"product,omitempty"`
}

// chatSession holds the per-session conversation state: the transcript and
// the pending idle timer. Scheduling a new timer cancels the previous one,
// so at most one timer is pending per session. gen rises on every arm and
// on shutdown; a fired timer whose generation is stale does nothing, which
// covers the window where a message lands after the timer fires but before
// its callback runs.
type chatSession struct {
	mu         sync.Mutex
	transcript domain.Transcript
	idle       *time.Timer
	gen        int
}

// ChatService answers storefront chat messages with canned rules backed by
// fuzzy product matching, and dispatches the conversation transcript by
// email after a period of inactivity.
type ChatService struct {
	catalog     *catalog.Catalog
	matcher     *matcher.Matcher
	mailer      mailer.Mailer
	logger      *slog.Logger
	idleTimeout time.Duration
	recipient   string

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService creates a new chat service. idleTimeout is how long a
// session may stay quiet before its transcript is dispatched and the
// conversation resets.
func NewChatService(cat *catalog.Catalog, m *matcher.Matcher, mail mailer.Mailer, logger *slog.Logger, idleTimeout time.Duration, recipient string) *ChatService {
	return &ChatService{
		catalog:     cat,
		matcher:     m,
		mailer:      mail,
		logger:      logger,
		idleTimeout: idleTimeout,
		recipient:   recipient,
		sessions:    make(map[string]*chatSession),
	}
}

// Send records a user message, produces the bot's reply, and rearms the
// session's idle timer.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (*ChatReply, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.InvalidInput("message text is required")
	}

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := time.Now().UTC()
	sess.transcript.Messages = append(sess.transcript.Messages, domain.ChatMessage{
		Role: domain.ChatRoleUser,
		Text: text,
		At:   now,
	})

	reply := s.answer(text)

	sess.transcript.Messages = append(sess.transcript.Messages, domain.ChatMessage{
		Role: domain.ChatRoleBot,
		Text: reply.Text,
		At:   now,
	})

	s.armIdleTimer(sessionID, sess)

	s.logger.InfoContext(ctx, "chat message answered",
		slog.String("session_id", sessionID),
		slog.Int("transcript_len", len(sess.transcript.Messages)),
	)

	return reply, nil
}

// Transcript returns a copy of the session's conversation so far. A session
// that never chatted gets an empty transcript.
func (s *ChatService) Transcript(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	// Reading must not grow the session table; only Send creates entries.
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return &domain.Transcript{}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	msgs := make([]domain.ChatMessage, len(sess.transcript.Messages))
	copy(msgs, sess.transcript.Messages)
	return &domain.Transcript{Messages: msgs}, nil
}

// Close stops all pending idle timers. Called during shutdown.
func (s *ChatService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		if sess.idle != nil {
			sess.idle.Stop()
			sess.idle = nil
		}
		// Invalidate any callback already in flight.
		sess.gen++
		sess.mu.Unlock()
	}
}

// answer applies the canned reply rules to one user message.
func (s *ChatService) answer(text string) *ChatReply {
	lower := strings.ToLower(text)

	switch {
	case hasWord(lower, "hi", "hello", "hey", "salam"):
		return &ChatReply{Text: "Hello! Ask me about any of our products and I'll find it for you."}
	case containsAny(lower, "delivery", "shipping"):
		return &ChatReply{Text: "We deliver across the UAE within 2-4 working days."}
	case containsAny(lower, "contact", "phone", "email"):
		return &ChatReply{Text: "You can reach us at rapidvoltshop@gmail.com."}
	}

	if product, ok := s.matcher.FindClosest(text, s.catalog.List()); ok {
		reply := fmt.Sprintf("%s costs %s %s.", product.Title, domain.Currency, domain.FormatAmount(product.Price))
		if product.Description != "" {
			reply += " " + product.Description
		}
		return &ChatReply{Text: reply, Product: product}
	}

	return &ChatReply{Text: fallbackReply}
}

// armIdleTimer schedules the idle dispatch for a session, cancelling any
// previously scheduled one. Caller holds sess.mu.
func (s *ChatService) armIdleTimer(sessionID string, sess *chatSession) {
	if s.idleTimeout <= 0 {
		return
	}
	if sess.idle != nil {
		sess.idle.Stop()
	}
	sess.gen++
	gen := sess.gen
	sess.idle = time.AfterFunc(s.idleTimeout, func() {
		s.onIdle(sessionID, sess, gen)
	})
}

// onIdle fires when a session has been quiet for the idle timeout. It
// dispatches the transcript best-effort and resets the conversation. A
// stale generation means the slot was re-armed after this timer fired, so
// the newer timer owns the transcript.
func (s *ChatService) onIdle(sessionID string, sess *chatSession, gen int) {
	sess.mu.Lock()
	if gen != sess.gen {
		sess.mu.Unlock()
		return
	}
	transcript := sess.transcript
	sess.transcript = domain.Transcript{}
	sess.idle = nil
	sess.mu.Unlock()

	s.evict(sessionID, sess)

	if transcript.IsEmpty() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.mailer.Send(ctx, mailer.Email{
		ToEmail:        s.recipient,
		ChatTranscript: transcript.Render(),
		WebsiteDesc:    domain.WebsiteDesc,
	})
	if err != nil {
		s.logger.Error("failed to dispatch chat transcript",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("chat transcript dispatched after inactivity",
		slog.String("session_id", sessionID),
		slog.Int("messages", len(transcript.Messages)),
	)
}

// evict drops a dispatched session from the table so the map only holds
// sessions with live conversations. A session that chatted again in the
// meantime has a pending timer or transcript lines and stays put.
func (s *ChatService) evict(sessionID string, sess *chatSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[sessionID]
	if !ok || cur != sess {
		return
	}
	cur.mu.Lock()
	idle := cur.idle == nil && len(cur.transcript.Messages) == 0
	cur.mu.Unlock()
	if idle {
		delete(s.sessions, sessionID)
	}
}

// session returns the chat session for the given ID, creating it if needed.
func (s *ChatService) session(sessionID string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &chatSession{}
		s.sessions[sessionID] = sess
	}
	return sess
}

// containsAny reports whether text contains any of the given substrings.
func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// hasWord reports whether any whole word of text equals one of the given
// words. Substring matching is too eager here: "switch" contains "hi".
func hasWord(text string, words ...string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
