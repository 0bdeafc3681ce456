package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

func newTestCheckoutService(repo *mockCartRepository, mail *capturingMailer) *CheckoutService {
	cartSvc, _ := newTestCartService(repo)
	chatSvc := newTestChatService(mail, 0)
	return NewCheckoutService(cartSvc, chatSvc, mail, newTestLogger(), "shop@example.com")
}

func validInput() CheckoutInput {
	return CheckoutInput{
		Name:    "Sara",
		Email:   "sara@example.com",
		Phone:   "+9715000000",
		Address: "Dubai Marina",
	}
}

func TestCheckoutSubmit_Success(t *testing.T) {
	repo := new(mockCartRepository)
	mail := newCapturingMailer()
	svc := newTestCheckoutService(repo, mail)
	ctx := context.Background()

	repo.On("Load", ctx, "sess-1").Return(cartWithMotion(2), nil)
	repo.On("Delete", ctx, "sess-1").Return(nil)

	order, err := svc.Submit(ctx, "sess-1", validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Sara", order.Customer.Name)
	assert.Equal(t, int64(25000), order.Total)
	require.Len(t, order.Lines, 1)

	require.Equal(t, 1, mail.sentCount())
	email := mail.sent[0]
	assert.Equal(t, "shop@example.com", email.ToEmail)
	assert.Equal(t, "sara@example.com", email.CustomerEmail)
	assert.Equal(t, "Motion Sensor Switch x 2 - AED 250.00", email.OrderDetails)
	assert.Equal(t, "AED 250.00", email.OrderTotal)
	assert.NotEmpty(t, email.WebsiteDesc)

	repo.AssertExpectations(t)
}

func TestCheckoutSubmit_EmptyCartRefused(t *testing.T) {
	repo := new(mockCartRepository)
	mail := newCapturingMailer()
	svc := newTestCheckoutService(repo, mail)
	ctx := context.Background()

	repo.On("Load", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

	_, err := svc.Submit(ctx, "sess-1", validInput())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, 0, mail.sentCount())
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// A failed dispatch must leave the cart intact so the customer can retry.
func TestCheckoutSubmit_DispatchFailureKeepsCart(t *testing.T) {
	repo := new(mockCartRepository)
	mail := newCapturingMailer()
	mail.err = assert.AnError
	svc := newTestCheckoutService(repo, mail)
	ctx := context.Background()

	repo.On("Load", ctx, "sess-1").Return(cartWithMotion(1), nil)

	_, err := svc.Submit(ctx, "sess-1", validInput())

	require.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckoutSubmit_IncludesChatTranscript(t *testing.T) {
	repo := new(mockCartRepository)
	mail := newCapturingMailer()
	cartSvc, _ := newTestCartService(repo)
	chatSvc := newTestChatService(mail, 0)
	svc := NewCheckoutService(cartSvc, chatSvc, mail, newTestLogger(), "shop@example.com")
	ctx := context.Background()

	_, err := chatSvc.Send(ctx, "sess-1", "hello")
	require.NoError(t, err)

	repo.On("Load", ctx, "sess-1").Return(cartWithMotion(1), nil)
	repo.On("Delete", ctx, "sess-1").Return(nil)

	_, err = svc.Submit(ctx, "sess-1", validInput())

	require.NoError(t, err)
	require.Equal(t, 1, mail.sentCount())
	assert.Contains(t, mail.sent[0].ChatTranscript, "user: hello")
}

func TestCheckoutSubmit_RequiresSession(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCheckoutService(repo, newCapturingMailer())

	_, err := svc.Submit(context.Background(), "", validInput())

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
