package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/catalog"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/repository"
	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

// Action identifies a cart mutation requested by the storefront. The values
// match the data-action attributes the page buttons carry.
type Action string

const (
	// ActionAdd puts one unit of a product into the cart.
	ActionAdd Action = "add"
	// ActionRemove drops a product's line from the cart entirely.
	ActionRemove Action = "remove"
	// ActionIncrement raises a line's quantity by one.
	ActionIncrement Action = "increment"
	// ActionDecrement lowers a line's quantity by one, removing the line
	// when it would fall below one.
	ActionDecrement Action = "decrement"
)

// Command is a single cart mutation from the storefront.
type Command struct {
	Action    Action `json:"action" validate:"required,oneof=add remove increment decrement"`
	ProductID string `json:"product_id" validate:"required"`
}

// CartNotifier receives the full cart state after every successful mutation.
// It stands where the page re-render used to be: persistence always happens
// first, then the notifier fires.
type CartNotifier interface {
	CartUpdated(ctx context.Context, sessionID string, cart *domain.Cart)
}

// CartService implements the business logic for cart operations. Mutations
// for the same session are serialized so a burst of clicks cannot interleave
// load-modify-save cycles.
type CartService struct {
	repo     repository.CartRepository
	catalog  *catalog.Catalog
	notifier CartNotifier
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock counts its waiters so the lock table can drop entries for
// idle sessions. Session IDs are client-generated, so the table would
// otherwise grow without bound.
type sessionLock struct {
	sync.Mutex
	refs int
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, cat *catalog.Catalog, notifier CartNotifier, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  cat,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sessionLock),
	}
}

// Get retrieves the cart for a session. A session with no stored cart gets
// an empty one.
func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{Lines: []domain.CartLine{}}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	return cart, nil
}

// Apply executes a single cart command and returns the resulting cart.
func (s *CartService) Apply(ctx context.Context, sessionID string, cmd Command) (*domain.Cart, error) {
	switch cmd.Action {
	case ActionAdd:
		return s.Add(ctx, sessionID, cmd.ProductID)
	case ActionRemove:
		return s.Remove(ctx, sessionID, cmd.ProductID)
	case ActionIncrement:
		return s.ChangeQty(ctx, sessionID, cmd.ProductID, 1)
	case ActionDecrement:
		return s.ChangeQty(ctx, sessionID, cmd.ProductID, -1)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown cart action %q", cmd.Action))
	}
}

// Add puts one unit of the product into the session's cart, merging into an
// existing line if the product is already there. An unknown product ID is
// ignored: the cart is returned unchanged, the way a stale button on the page
// does nothing.
func (s *CartService) Add(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// An unknown product is a silent no-op, but the cart still goes
	// through the persist-then-notify step like any other Add.
	if i := cart.FindLineIndex(productID); i >= 0 {
		cart.Lines[i].Qty++
	} else if product, ok := s.catalog.Find(productID); ok {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Qty:       1,
		})
	} else {
		s.logger.DebugContext(ctx, "add ignored for unknown product",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
		)
	}

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return cart, nil
}

// Remove drops the product's line from the session's cart. Removing a product
// that is not in the cart is a no-op.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Removing an absent product is idempotent; the cart is persisted
	// either way.
	if i := cart.FindLineIndex(productID); i >= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ChangeQty adjusts a line's quantity by delta. A quantity that would drop
// below one removes the line. Adjusting a product that is not in the cart is
// a no-op.
func (s *CartService) ChangeQty(ctx context.Context, sessionID, productID string, delta int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindLineIndex(productID)
	if i < 0 {
		return cart, nil
	}

	newQty := cart.Lines[i].Qty + delta
	if newQty < 1 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	} else {
		cart.Lines[i].Qty = newQty
	}

	if err := s.persist(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart quantity changed",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("delta", delta),
	)

	return cart, nil
}

// Clear removes the session's stored cart entirely.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	s.notifier.CartUpdated(ctx, sessionID, &domain.Cart{Lines: []domain.CartLine{}})

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// persist saves the cart and then notifies. Save failures propagate and the
// notifier does not fire, so observers never see state that was not stored.
func (s *CartService) persist(ctx context.Context, sessionID string, cart *domain.Cart) error {
	if err := s.repo.Save(ctx, sessionID, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.notifier.CartUpdated(ctx, sessionID, cart)
	return nil
}

// lockSession acquires the per-session mutation lock and returns its
// release func. The last releaser removes the session's entry from the
// lock table.
func (s *CartService) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
