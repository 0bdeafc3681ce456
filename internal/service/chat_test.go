package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/matcher"
	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

// --- Capturing Mailer ---

type capturingMailer struct {
	mu     sync.Mutex
	sent   []mailer.Email
	sentCh chan mailer.Email
	err    error
}

func newCapturingMailer() *capturingMailer {
	return &capturingMailer{sentCh: make(chan mailer.Email, 8)}
}

func (m *capturingMailer) Name() string { return "capture" }

func (m *capturingMailer) Send(_ context.Context, email mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	m.sentCh <- email
	return nil
}

func (m *capturingMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// --- Test Helpers ---

func newTestChatService(mail mailer.Mailer, idle time.Duration) *ChatService {
	return NewChatService(testCatalog(), matcher.New(matcher.DefaultMinSimilarity), mail, newTestLogger(), idle, "shop@example.com")
}

// ---------------------------------------------------------------------------
// Send
// ---------------------------------------------------------------------------

func TestChatSend_Greeting(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	reply, err := svc.Send(context.Background(), "sess-1", "Hello there")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Hello")
	assert.Nil(t, reply.Product)
}

func TestChatSend_ProductQuestion(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	reply, err := svc.Send(context.Background(), "sess-1", "how much is the motion sensor switch?")

	require.NoError(t, err)
	require.NotNil(t, reply.Product)
	assert.Equal(t, "motion", reply.Product.ID)
	assert.Contains(t, reply.Text, "AED 125.00")
}

func TestChatSend_GreetingWordsDontMatchInsideOthers(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	// "switch" contains "hi"; the greeting rule must not fire.
	reply, err := svc.Send(context.Background(), "sess-1", "motion sensor switch")

	require.NoError(t, err)
	require.NotNil(t, reply.Product)
	assert.Equal(t, "motion", reply.Product.ID)
}

func TestChatSend_Delivery(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	reply, err := svc.Send(context.Background(), "sess-1", "what about delivery time?")

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "deliver")
}

func TestChatSend_Fallback(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	reply, err := svc.Send(context.Background(), "sess-1", "qwertyuiop zzzz")

	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply.Text)
	assert.Nil(t, reply.Product)
}

func TestChatSend_Validation(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)
	ctx := context.Background()

	_, err := svc.Send(ctx, "", "hello")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Send(ctx, "sess-1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// ---------------------------------------------------------------------------
// Transcript
// ---------------------------------------------------------------------------

func TestChatTranscript_RecordsBothSides(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)
	ctx := context.Background()

	_, err := svc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err)

	transcript, err := svc.Transcript(ctx, "sess-1")
	require.NoError(t, err)

	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, domain.ChatRoleUser, transcript.Messages[0].Role)
	assert.Equal(t, "hello", transcript.Messages[0].Text)
	assert.Equal(t, domain.ChatRoleBot, transcript.Messages[1].Role)
}

func TestChatTranscript_ReadDoesNotCreateSession(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	transcript, err := svc.Transcript(context.Background(), "drive-by")

	require.NoError(t, err)
	assert.True(t, transcript.IsEmpty())

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.sessions)
}

func TestChatTranscript_EmptyForNewSession(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)

	transcript, err := svc.Transcript(context.Background(), "fresh")

	require.NoError(t, err)
	assert.True(t, transcript.IsEmpty())
}

func TestChatTranscript_SessionsAreIsolated(t *testing.T) {
	svc := newTestChatService(newCapturingMailer(), 0)
	ctx := context.Background()

	_, err := svc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err)

	transcript, err := svc.Transcript(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, transcript.IsEmpty())
}

// ---------------------------------------------------------------------------
// Idle timer
// ---------------------------------------------------------------------------

func TestChatIdle_DispatchesTranscriptAndResets(t *testing.T) {
	mail := newCapturingMailer()
	svc := newTestChatService(mail, 30*time.Millisecond)
	ctx := context.Background()

	_, err := svc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err)

	select {
	case email := <-mail.sentCh:
		assert.Equal(t, "shop@example.com", email.ToEmail)
		assert.Contains(t, email.ChatTranscript, "user: hello")
		assert.Contains(t, email.ChatTranscript, "bot: ")
	case <-time.After(2 * time.Second):
		t.Fatal("idle transcript was never dispatched")
	}

	transcript, err := svc.Transcript(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, transcript.IsEmpty())
}

func TestChatIdle_NewMessageRearmsTimer(t *testing.T) {
	mail := newCapturingMailer()
	svc := newTestChatService(mail, 80*time.Millisecond)
	ctx := context.Background()

	// Keep talking faster than the idle timeout; nothing should dispatch.
	for i := 0; i < 3; i++ {
		_, err := svc.Send(ctx, "sess-1", "hello")
		require.NoError(t, err)
		time.Sleep(30 * time.Millisecond)
	}
	assert.Equal(t, 0, mail.sentCount())

	// Then go quiet and exactly one dispatch arrives.
	select {
	case <-mail.sentCh:
	case <-time.After(2 * time.Second):
		t.Fatal("idle transcript was never dispatched")
	}

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, mail.sentCount())
}

func TestChatIdle_StaleTimerDoesNotStealTranscript(t *testing.T) {
	mail := newCapturingMailer()
	svc := newTestChatService(mail, time.Hour)
	ctx := context.Background()

	_, err := svc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err)

	// A timer that fired just before the message re-armed the slot carries
	// the previous generation. Its callback must leave the conversation
	// alone.
	sess := svc.session("sess-1")
	sess.mu.Lock()
	staleGen := sess.gen - 1
	sess.mu.Unlock()

	svc.onIdle("sess-1", sess, staleGen)

	assert.Equal(t, 0, mail.sentCount())
	transcript, err := svc.Transcript(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, transcript.Messages, 2)

	svc.Close()
}

func TestChatIdle_DispatchedSessionIsEvicted(t *testing.T) {
	mail := newCapturingMailer()
	svc := newTestChatService(mail, 30*time.Millisecond)

	_, err := svc.Send(context.Background(), "sess-1", "hello")
	require.NoError(t, err)

	select {
	case <-mail.sentCh:
	case <-time.After(2 * time.Second):
		t.Fatal("idle transcript was never dispatched")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.sessions)
}

func TestChatIdle_DisabledWithZeroTimeout(t *testing.T) {
	mail := newCapturingMailer()
	svc := newTestChatService(mail, 0)

	_, err := svc.Send(context.Background(), "sess-1", "hello")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, mail.sentCount())
}
