package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository"
)

const (
	ownerAddr    = "0x00000000000000000000000000000000000000a1"
	registryAddr = "0x00000000000000000000000000000000000000c0"
	strangerAddr = "0x000000000000000000000000000000000000beef"
	tokenAddr    = "0x0000000000000000000000000000000000007ea1"
)

type fakeRegistryRepo struct {
	state  repository.RegistryState
	tokens []domain.AcceptedToken

	nextTokenID uint64
	err         error

	setPriceCalls    int
	setTokenCalls    int
	removeTokenCalls int
	setTreasuryCalls int
	withdrawn        domain.Amount
	recoveredToken   string
}

func newFakeRegistryRepo() *fakeRegistryRepo {
	return &fakeRegistryRepo{
		state: repository.RegistryState{
			OwnerAddress:    ownerAddr,
			RegistryAddress: registryAddr,
			TreasuryAddress: "0x00000000000000000000000000000000000000e7",
			NativePrice:     domain.NewAmount(1000),
			NextTokenID:     1,
		},
		nextTokenID: 1,
	}
}

func (f *fakeRegistryRepo) GetState(context.Context) (repository.RegistryState, error) {
	return f.state, f.err
}

func (f *fakeRegistryRepo) SetNativePrice(_ context.Context, price domain.Amount) error {
	f.setPriceCalls++
	f.state.NativePrice = price
	return f.err
}

func (f *fakeRegistryRepo) SetTreasury(_ context.Context, treasury string) error {
	f.setTreasuryCalls++
	f.state.TreasuryAddress = treasury
	return f.err
}

func (f *fakeRegistryRepo) SetToken(_ context.Context, address string, price domain.Amount) error {
	f.setTokenCalls++
	f.tokens = append(f.tokens, domain.AcceptedToken{Address: address, Accepted: true, Price: price})
	return f.err
}

func (f *fakeRegistryRepo) UpdateTokenPrice(context.Context, string, domain.Amount) error {
	return f.err
}

func (f *fakeRegistryRepo) RemoveToken(context.Context, string) error {
	f.removeTokenCalls++
	return f.err
}

func (f *fakeRegistryRepo) GetToken(context.Context, string) (domain.AcceptedToken, error) {
	return domain.AcceptedToken{}, f.err
}

func (f *fakeRegistryRepo) ListAcceptedTokens(context.Context) ([]domain.AcceptedToken, error) {
	return f.tokens, f.err
}

func (f *fakeRegistryRepo) MintWithNative(_ context.Context, req repository.MintRequest, _ domain.Amount) (domain.Card, error) {
	if f.err != nil {
		return domain.Card{}, f.err
	}
	card := domain.Card{TokenID: f.nextTokenID, Owner: req.Caller, Username: req.Username, MetadataCID: req.MetadataCID}
	f.nextTokenID++
	return card, nil
}

func (f *fakeRegistryRepo) MintWithToken(_ context.Context, _ string, req repository.MintRequest) (domain.Card, error) {
	if f.err != nil {
		return domain.Card{}, f.err
	}
	card := domain.Card{TokenID: f.nextTokenID, Owner: req.Caller, Username: req.Username}
	f.nextTokenID++
	return card, nil
}

func (f *fakeRegistryRepo) WithdrawNative(context.Context) (domain.Amount, error) {
	return f.withdrawn, f.err
}

func (f *fakeRegistryRepo) RecoverToken(_ context.Context, tokenAddress string) (domain.Amount, error) {
	f.recoveredToken = tokenAddress
	return f.withdrawn, f.err
}

func (f *fakeRegistryRepo) FindCard(context.Context, uint64) (domain.Card, error) {
	return domain.Card{}, f.err
}

func (f *fakeRegistryRepo) FindCardsByOwner(context.Context, string) ([]domain.Card, error) {
	return nil, f.err
}

func (f *fakeRegistryRepo) ListEvents(context.Context, int) ([]domain.Event, error) {
	return nil, f.err
}

type capturingPublisher struct {
	events []domain.Event
}

func (p *capturingPublisher) Publish(event domain.Event) {
	p.events = append(p.events, event)
}

func (p *capturingPublisher) types() []domain.EventType {
	var types []domain.EventType
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func TestMintWithNativePublishesEvent(t *testing.T) {
	repo := newFakeRegistryRepo()
	pub := &capturingPublisher{}
	svc := NewRegistryService(repo, pub)

	req := repository.MintRequest{Caller: strangerAddr, Username: "trader"}

	card, err := svc.MintWithNative(context.Background(), req, domain.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), card.TokenID)

	card, err = svc.MintWithNative(context.Background(), req, domain.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), card.TokenID)

	assert.Equal(t, []domain.EventType{domain.EventCardMinted, domain.EventCardMinted}, pub.types())
}

func TestMintErrorDoesNotPublish(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.err = domain.ErrInsufficientPayment
	pub := &capturingPublisher{}
	svc := NewRegistryService(repo, pub)

	_, err := svc.MintWithNative(context.Background(), repository.MintRequest{}, domain.NewAmount(1))
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Empty(t, pub.events)
}

func TestSetNativePriceRequiresOwner(t *testing.T) {
	repo := newFakeRegistryRepo()
	svc := NewRegistryService(repo, &capturingPublisher{})

	err := svc.SetNativePrice(context.Background(), strangerAddr, domain.NewAmount(2000))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, repo.setPriceCalls)
}

func TestSetNativePriceOwnerIsCaseInsensitive(t *testing.T) {
	repo := newFakeRegistryRepo()
	pub := &capturingPublisher{}
	svc := NewRegistryService(repo, pub)

	err := svc.SetNativePrice(context.Background(), "0x00000000000000000000000000000000000000A1", domain.NewAmount(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.setPriceCalls)
	assert.Equal(t, []domain.EventType{domain.EventNativePriceUpdated}, pub.types())
}

func TestSetNativePriceRejectsZero(t *testing.T) {
	repo := newFakeRegistryRepo()
	svc := NewRegistryService(repo, &capturingPublisher{})

	err := svc.SetNativePrice(context.Background(), ownerAddr, domain.Amount{})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Zero(t, repo.setPriceCalls)
}

func TestSetTokenValidation(t *testing.T) {
	repo := newFakeRegistryRepo()
	svc := NewRegistryService(repo, &capturingPublisher{})
	ctx := context.Background()

	err := svc.SetToken(ctx, ownerAddr, "0x0", domain.NewAmount(500))
	assert.ErrorIs(t, err, ErrInvalidToken)

	err = svc.SetToken(ctx, ownerAddr, tokenAddr, domain.Amount{})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	err = svc.SetToken(ctx, ownerAddr, tokenAddr, domain.NewAmount(500))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.setTokenCalls)
}

func TestSetTreasuryValidation(t *testing.T) {
	repo := newFakeRegistryRepo()
	svc := NewRegistryService(repo, &capturingPublisher{})
	ctx := context.Background()

	err := svc.SetTreasury(ctx, ownerAddr, "0x0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrInvalidTreasury)
	assert.Zero(t, repo.setTreasuryCalls)

	err = svc.SetTreasury(ctx, strangerAddr, strangerAddr)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.SetTreasury(ctx, ownerAddr, strangerAddr))
	assert.Equal(t, 1, repo.setTreasuryCalls)
}

func TestWithdrawNativePublishesEvent(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.withdrawn = domain.NewAmount(3000)
	pub := &capturingPublisher{}
	svc := NewRegistryService(repo, pub)

	withdrawn, err := svc.WithdrawNative(context.Background(), ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, "3000", withdrawn.String())
	assert.Equal(t, []domain.EventType{domain.EventPaymentWithdrawn}, pub.types())
}

func TestRecoverTokenRequiresOwner(t *testing.T) {
	repo := newFakeRegistryRepo()
	svc := NewRegistryService(repo, &capturingPublisher{})

	_, err := svc.RecoverToken(context.Background(), strangerAddr, tokenAddr)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, repo.recoveredToken)
}

func TestGetPricing(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.tokens = []domain.AcceptedToken{{Address: tokenAddr, Accepted: true, Price: domain.NewAmount(500)}}
	svc := NewRegistryService(repo, &capturingPublisher{})

	pricing, err := svc.GetPricing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, registryAddr, pricing.RegistryAddress)
	assert.Equal(t, "1000", pricing.NativePrice.String())
	require.Len(t, pricing.AcceptedTokens, 1)
	assert.Equal(t, tokenAddr, pricing.AcceptedTokens[0].Address)
}

func TestGetPricingPropagatesError(t *testing.T) {
	repo := newFakeRegistryRepo()
	repo.err = errors.New("db down")
	svc := NewRegistryService(repo, &capturingPublisher{})

	_, err := svc.GetPricing(context.Background())
	assert.Error(t, err)
}
