package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecard/cardmint/internal/domain"
)

const testTokenAddr = "0x0000000000000000000000000000000000007ea1"

type fakePackager struct {
	uploadErr    error
	uploadedDocs []domain.CardMetadata
	imageUploads []string
}

func (p *fakePackager) Upload(_ context.Context, doc domain.CardMetadata) (string, error) {
	if p.uploadErr != nil {
		return "", p.uploadErr
	}
	p.uploadedDocs = append(p.uploadedDocs, doc)
	return "bafymetadata", nil
}

func (p *fakePackager) UploadImage(_ context.Context, imageURL string) (string, error) {
	p.imageUploads = append(p.imageUploads, imageURL)
	return "bafyimage", nil
}

func (p *fakePackager) GatewayURL(cid string) string {
	return "https://gateway.test/" + cid
}

type fakeRegistry struct {
	pricing    Pricing
	pricingErr error
	mintErr    error

	nativeMints  []Submission
	tokenMints   []Submission
	approvals    []domain.Amount
	nextTokenID  uint64
	approveOrder []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		pricing: Pricing{
			RegistryAddress: "0x00000000000000000000000000000000000000c0",
			NativePrice:     domain.NewAmount(1000),
			AcceptedTokens: []domain.AcceptedToken{
				{Address: testTokenAddr, Accepted: true, Price: domain.NewAmount(500)},
			},
		},
		nextTokenID: 1,
	}
}

func (r *fakeRegistry) Pricing(context.Context) (Pricing, error) {
	return r.pricing, r.pricingErr
}

func (r *fakeRegistry) MintWithNative(_ context.Context, sub Submission, payment domain.Amount) (uint64, error) {
	if r.mintErr != nil {
		return 0, r.mintErr
	}
	if payment.Cmp(r.pricing.NativePrice) < 0 {
		return 0, domain.ErrInsufficientPayment
	}
	r.nativeMints = append(r.nativeMints, sub)
	id := r.nextTokenID
	r.nextTokenID++
	return id, nil
}

func (r *fakeRegistry) MintWithToken(_ context.Context, _ string, sub Submission) (uint64, error) {
	if r.mintErr != nil {
		return 0, r.mintErr
	}
	r.approveOrder = append(r.approveOrder, "mint")
	r.tokenMints = append(r.tokenMints, sub)
	id := r.nextTokenID
	r.nextTokenID++
	return id, nil
}

func (r *fakeRegistry) Approve(_ context.Context, _ string, amount domain.Amount) error {
	r.approveOrder = append(r.approveOrder, "approve")
	r.approvals = append(r.approvals, amount)
	return nil
}

// batchRegistry additionally supports atomic approve+mint.
type batchRegistry struct {
	*fakeRegistry
	batchCalls int
}

func (r *batchRegistry) ApproveAndMint(_ context.Context, _ string, allowance domain.Amount, sub Submission) (uint64, error) {
	r.batchCalls++
	r.approvals = append(r.approvals, allowance)
	r.tokenMints = append(r.tokenMints, sub)
	id := r.nextTokenID
	r.nextTokenID++
	return id, nil
}

func metrics() domain.MetricsSnapshot {
	return domain.MetricsSnapshot{
		Username:        "trader",
		TotalProfitLoss: decimal.NewFromFloat(-12.34),
		WinRate:         decimal.NewFromFloat(61.23),
		NetWorth:        decimal.NewFromFloat(1050.50),
	}
}

func TestAttemptNativeFlow(t *testing.T) {
	packager := &fakePackager{}
	registry := newFakeRegistry()
	attempt := New(packager, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	assert.Equal(t, StateChoosingMethod, attempt.State())
	assert.NotEqual(t, uuid.Nil, attempt.ID())

	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics()))

	assert.Equal(t, StateSucceeded, attempt.State())
	assert.Equal(t, uint64(1), attempt.TokenID())
	assert.Equal(t, "bafymetadata", attempt.MetadataCID())

	require.Len(t, registry.nativeMints, 1)
	sub := registry.nativeMints[0]
	assert.Equal(t, "trader", sub.Username)
	assert.Equal(t, int64(-1234), sub.Metrics.TotalProfitLoss)
	assert.Equal(t, uint64(6123), sub.Metrics.WinRate)
	assert.Equal(t, uint64(105050), sub.Metrics.NetWorth)
	assert.Equal(t, "bafymetadata", sub.MetadataCID)

	// The pinned document carries the scaled metrics too.
	require.Len(t, packager.uploadedDocs, 1)
	assert.Equal(t, int64(-1234), packager.uploadedDocs[0].TotalProfitLoss)
	assert.NotZero(t, packager.uploadedDocs[0].Timestamp)
}

func TestAttemptTokenFlowSequentialFallback(t *testing.T) {
	registry := newFakeRegistry()
	attempt := New(&fakePackager{}, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentToken, testTokenAddr, metrics()))

	assert.Equal(t, StateSucceeded, attempt.State())

	// Without batch support the approval lands first, then the mint.
	assert.Equal(t, []string{"approve", "mint"}, registry.approveOrder)
	require.Len(t, registry.approvals, 1)
	assert.Equal(t, 0, registry.approvals[0].Cmp(domain.MaxAmount()))
}

func TestAttemptTokenFlowBatched(t *testing.T) {
	registry := &batchRegistry{fakeRegistry: newFakeRegistry()}
	attempt := New(&fakePackager{}, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentToken, testTokenAddr, metrics()))

	assert.Equal(t, StateSucceeded, attempt.State())
	assert.Equal(t, 1, registry.batchCalls)
	assert.Empty(t, registry.approveOrder, "the sequential path must not run when batching works")
}

func TestAttemptTokenNotAccepted(t *testing.T) {
	registry := newFakeRegistry()
	attempt := New(&fakePackager{}, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	err := attempt.Confirm(context.Background(), domain.PaymentToken, "0x000000000000000000000000000000000000dead", metrics())
	assert.ErrorIs(t, err, domain.ErrTokenNotAccepted)
	assert.Equal(t, StateFailed, attempt.State())
}

func TestAttemptUploadFailureStopsBeforeSubmission(t *testing.T) {
	packager := &fakePackager{uploadErr: errors.New("gateway timeout")}
	registry := newFakeRegistry()
	attempt := New(packager, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	err := attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics())
	require.Error(t, err)

	assert.Equal(t, StateFailed, attempt.State())
	assert.Equal(t, "metadata upload failed: gateway timeout", attempt.FailureMessage())
	assert.Empty(t, registry.nativeMints, "nothing may be submitted when packaging fails")
	assert.Empty(t, attempt.MetadataCID())
}

func TestAttemptMintFailureMessage(t *testing.T) {
	registry := newFakeRegistry()
	registry.mintErr = domain.ErrInsufficientFunds
	attempt := New(&fakePackager{}, registry, WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	err := attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics())
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, StateFailed, attempt.State())
	assert.Equal(t, "mint transaction failed: "+domain.ErrInsufficientFunds.Error(), attempt.FailureMessage())
}

func TestAttemptImageUpload(t *testing.T) {
	packager := &fakePackager{}
	attempt := New(packager, newFakeRegistry(), WithResetDelay(time.Hour))

	snapshot := metrics()
	snapshot.ImageURL = "https://example.com/avatar.png"

	require.NoError(t, attempt.Open())
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentNative, "", snapshot))

	assert.Equal(t, []string{"https://example.com/avatar.png"}, packager.imageUploads)
	require.Len(t, packager.uploadedDocs, 1)
	assert.Equal(t, "https://gateway.test/bafyimage", packager.uploadedDocs[0].ImageURL)
}

func TestAttemptBackFromFailed(t *testing.T) {
	packager := &fakePackager{uploadErr: errors.New("boom")}
	attempt := New(packager, newFakeRegistry(), WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	id := attempt.ID()
	_ = attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics())
	require.Equal(t, StateFailed, attempt.State())

	require.NoError(t, attempt.Back())
	assert.Equal(t, StateChoosingMethod, attempt.State())
	assert.Empty(t, attempt.FailureMessage())
	assert.Equal(t, id, attempt.ID(), "going back keeps the attempt id")

	// A retry from choosing works once the packager recovers.
	packager.uploadErr = nil
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics()))
	assert.Equal(t, StateSucceeded, attempt.State())
}

func TestAttemptInvalidTransitions(t *testing.T) {
	attempt := New(&fakePackager{}, newFakeRegistry(), WithResetDelay(time.Hour))

	err := attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, attempt.Back(), ErrInvalidTransition)

	require.NoError(t, attempt.Open())
	assert.ErrorIs(t, attempt.Open(), ErrInvalidTransition)
	assert.ErrorIs(t, attempt.Back(), ErrInvalidTransition, "back is undefined while still choosing")
}

func TestAttemptResetFromAnyState(t *testing.T) {
	attempt := New(&fakePackager{}, newFakeRegistry(), WithResetDelay(time.Hour))

	require.NoError(t, attempt.Open())
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics()))
	require.Equal(t, StateSucceeded, attempt.State())

	attempt.Reset()
	assert.Equal(t, StateIdle, attempt.State())
	assert.Zero(t, attempt.TokenID())
	assert.Empty(t, attempt.MetadataCID())

	// The flow can start over.
	require.NoError(t, attempt.Open())
	assert.Equal(t, StateChoosingMethod, attempt.State())
}

func TestAttemptAutoResetAfterSuccess(t *testing.T) {
	attempt := New(&fakePackager{}, newFakeRegistry(), WithResetDelay(20*time.Millisecond))

	require.NoError(t, attempt.Open())
	require.NoError(t, attempt.Confirm(context.Background(), domain.PaymentNative, "", metrics()))
	require.Equal(t, StateSucceeded, attempt.State())

	assert.Eventually(t, func() bool {
		return attempt.State() == StateIdle
	}, time.Second, 5*time.Millisecond)
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StateSubmitting.Terminal())
}
