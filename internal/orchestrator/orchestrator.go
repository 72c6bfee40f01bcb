package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradecard/cardmint/internal/domain"
)

// successResetDelay is how long the success state stays visible before the
// attempt resets itself to idle.
const successResetDelay = 2 * time.Second

// Packager pins metadata documents to content-addressed storage.
type Packager interface {
	Upload(ctx context.Context, doc domain.CardMetadata) (string, error)
	UploadImage(ctx context.Context, imageURL string) (string, error)
	GatewayURL(cid string) string
}

// Pricing is the registry's read surface needed to prepare a submission.
type Pricing struct {
	RegistryAddress string                 `json:"registry_address"`
	NativePrice     domain.Amount          `json:"native_price"`
	AcceptedTokens  []domain.AcceptedToken `json:"accepted_tokens"`
}

// Submission is one mint call's caller-supplied payload.
type Submission struct {
	Username    string
	Metrics     domain.ScaledMetrics
	MetadataCID string
}

// Registry submits mint transactions on behalf of the caller.
type Registry interface {
	Pricing(ctx context.Context) (Pricing, error)
	MintWithNative(ctx context.Context, sub Submission, payment domain.Amount) (uint64, error)
	MintWithToken(ctx context.Context, tokenAddress string, sub Submission) (uint64, error)
	Approve(ctx context.Context, tokenAddress string, amount domain.Amount) error
}

// BatchMinter is implemented by registries that can submit the approval and
// the mint as one atomic batch. When absent, the orchestrator falls back to
// approve-then-mint sequentially.
type BatchMinter interface {
	ApproveAndMint(ctx context.Context, tokenAddress string, allowance domain.Amount, sub Submission) (uint64, error)
}

// Attempt is one short-lived mint attempt: a state machine sequencing
// metadata packaging, payment resolution and transaction submission.
// Only one attempt is in flight per instance.
type Attempt struct {
	packager Packager
	registry Registry

	resetDelay time.Duration
	now        func() time.Time

	mu           sync.Mutex
	id           uuid.UUID
	state        State
	method       domain.PaymentMethod
	tokenAddress string
	metadataCID  string
	tokenID      uint64
	failure      string
	resetTimer   *time.Timer
}

type Option func(*Attempt)

// WithResetDelay overrides the success auto-reset delay.
func WithResetDelay(d time.Duration) Option {
	return func(a *Attempt) { a.resetDelay = d }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Attempt) { a.now = now }
}

func New(packager Packager, registry Registry, opts ...Option) *Attempt {
	a := &Attempt{
		packager:   packager,
		registry:   registry,
		resetDelay: successResetDelay,
		now:        time.Now,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open starts the flow: idle -> choosing_method.
func (a *Attempt) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateIdle {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, a.state)
	}

	a.id = uuid.New()
	a.state = StateChoosingMethod
	return nil
}

// Confirm runs the attempt to a terminal state: packaging first, then the
// payment-specific submission. It returns the error that moved the attempt
// to failed, or nil on success.
func (a *Attempt) Confirm(ctx context.Context, method domain.PaymentMethod, tokenAddress string, metrics domain.MetricsSnapshot) error {
	a.mu.Lock()
	if a.state != StateChoosingMethod {
		a.mu.Unlock()
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, a.state)
	}
	a.method = method
	a.tokenAddress = domain.NormalizeAddress(tokenAddress)
	a.state = StateUploadingMetadata
	a.mu.Unlock()

	scaled, err := metrics.Scale()
	if err != nil {
		return a.fail("invalid metrics", err)
	}

	cid, err := a.packageMetadata(ctx, metrics, scaled)
	if err != nil {
		return a.fail("metadata upload failed", err)
	}

	a.mu.Lock()
	a.metadataCID = cid
	a.state = StateSubmitting
	a.mu.Unlock()

	sub := Submission{
		Username:    metrics.Username,
		Metrics:     scaled,
		MetadataCID: cid,
	}

	tokenID, err := a.submit(ctx, sub)
	if err != nil {
		return a.fail("mint transaction failed", err)
	}

	a.mu.Lock()
	a.tokenID = tokenID
	a.state = StateSucceeded
	a.resetTimer = time.AfterFunc(a.resetDelay, a.Reset)
	a.mu.Unlock()

	return nil
}

// Back returns to the method choice from any post-choice state. The attempt
// keeps its id; a submitted transaction is not aborted.
func (a *Attempt) Back() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.postChoice() {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, a.state)
	}

	a.stopResetTimer()
	a.state = StateChoosingMethod
	a.metadataCID = ""
	a.tokenID = 0
	a.failure = ""
	return nil
}

// Reset closes the flow from any state. In-flight work is abandoned, not
// cancelled: a transaction already submitted stays submitted.
func (a *Attempt) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopResetTimer()
	a.state = StateIdle
	a.method = ""
	a.tokenAddress = ""
	a.metadataCID = ""
	a.tokenID = 0
	a.failure = ""
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) ID() uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.id
}

// TokenID is the minted token id; valid once the attempt succeeded.
func (a *Attempt) TokenID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tokenID
}

// MetadataCID is the pinned document's content identifier; set once
// packaging succeeded.
func (a *Attempt) MetadataCID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metadataCID
}

// FailureMessage is the human-readable reason shown in the failed state.
func (a *Attempt) FailureMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failure
}

func (a *Attempt) packageMetadata(ctx context.Context, metrics domain.MetricsSnapshot, scaled domain.ScaledMetrics) (string, error) {
	doc := domain.CardMetadata{
		Username:        metrics.Username,
		TotalProfitLoss: scaled.TotalProfitLoss,
		WinRate:         scaled.WinRate,
		NetWorth:        scaled.NetWorth,
		Timestamp:       a.now().Unix(),
	}

	if metrics.ImageURL != "" {
		imageCID, err := a.packager.UploadImage(ctx, metrics.ImageURL)
		if err != nil {
			return "", fmt.Errorf("packager.UploadImage -> %w", err)
		}
		doc.ImageURL = a.packager.GatewayURL(imageCID)
	}

	cid, err := a.packager.Upload(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("packager.Upload -> %w", err)
	}

	return cid, nil
}

func (a *Attempt) submit(ctx context.Context, sub Submission) (uint64, error) {
	pricing, err := a.registry.Pricing(ctx)
	if err != nil {
		return 0, fmt.Errorf("registry.Pricing -> %w", err)
	}

	plan, err := domain.ResolvePayment(a.method, pricing.NativePrice, findToken(pricing.AcceptedTokens, a.tokenAddress), domain.Amount{})
	if err != nil {
		return 0, err
	}

	if plan.Method == domain.PaymentNative {
		return a.registry.MintWithNative(ctx, sub, plan.Price)
	}

	// Grant the maximum representable allowance so repeated mints need no
	// further approvals. Batched when the registry supports it.
	if batch, ok := a.registry.(BatchMinter); ok {
		return batch.ApproveAndMint(ctx, plan.Asset, domain.MaxAmount(), sub)
	}

	if err := a.registry.Approve(ctx, plan.Asset, domain.MaxAmount()); err != nil {
		return 0, fmt.Errorf("registry.Approve -> %w", err)
	}

	return a.registry.MintWithToken(ctx, plan.Asset, sub)
}

// fail moves the attempt to failed and records a user-facing message. The
// attempt stays interactive: the user may go Back or Reset.
func (a *Attempt) fail(msg string, err error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = StateFailed
	a.failure = fmt.Sprintf("%s: %s", msg, rootMessage(err))
	return err
}

func (a *Attempt) stopResetTimer() {
	if a.resetTimer != nil {
		a.resetTimer.Stop()
		a.resetTimer = nil
	}
}

func findToken(tokens []domain.AcceptedToken, address string) domain.AcceptedToken {
	for _, t := range tokens {
		if domain.NormalizeAddress(t.Address) == address {
			return t
		}
	}
	return domain.AcceptedToken{Address: address}
}

// rootMessage unwraps to the innermost error so the user sees the cause,
// not the call chain.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
