// Command mintcard drives one mint attempt end to end: it logs in, pins the
// card metadata, resolves the payment and submits the mint transaction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"

	"github.com/tradecard/cardmint/internal/client"
	"github.com/tradecard/cardmint/internal/config"
	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/indexer"
	"github.com/tradecard/cardmint/internal/orchestrator"
	"github.com/tradecard/cardmint/internal/pinning"
)

func main() {
	var (
		apiURL     = flag.String("api", envOr("CARDMINT_API_URL", "http://localhost:8080"), "registry API base URL")
		email      = flag.String("email", os.Getenv("CARDMINT_EMAIL"), "account email")
		password   = flag.String("password", os.Getenv("CARDMINT_PASSWORD"), "account password")
		method     = flag.String("method", "native", "payment method: native or token")
		tokenAddr  = flag.String("token", "", "token address for token payments")
		username   = flag.String("username", "", "display name stamped on the card")
		pnl        = flag.String("pnl", "0", "total profit and loss")
		winRate    = flag.String("winrate", "0", "win rate")
		netWorth   = flag.String("networth", "0", "net worth")
		imageURL   = flag.String("image", "", "optional card image URL")
		indexerURL = flag.String("indexer", os.Getenv("CARDMINT_INDEXER_URL"), "optional indexer base URL, prints the wallet's latest card")
		wallet     = flag.String("wallet", "", "wallet address for the indexer lookup")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}
	if *username == "" {
		log.Fatal("username is required")
	}

	metrics, err := parseMetrics(*username, *pnl, *winRate, *netWorth, *imageURL)
	if err != nil {
		log.Fatalf("invalid metrics: %v", err)
	}

	paymentMethod := domain.PaymentNative
	if *method == "token" {
		paymentMethod = domain.PaymentToken
		if *tokenAddr == "" {
			log.Fatal("token payments need -token")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *indexerURL != "" && *wallet != "" {
		printLatestCard(ctx, *indexerURL, *wallet)
	}

	registry := client.New(*apiURL)
	if err := registry.Login(ctx, *email, *password); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	pinner := pinning.NewClient(&config.PinningConfig{
		BaseURL:    envOr("CARDMINT_PINNING_URL", "https://node2.irys.xyz"),
		GatewayURL: envOr("CARDMINT_PINNING_GATEWAY", "https://gateway.irys.xyz"),
		APIKey:     os.Getenv("CARDMINT_PINNING_KEY"),
	})

	attempt := orchestrator.New(pinner, registry)
	if err := attempt.Open(); err != nil {
		log.Fatalf("open attempt: %v", err)
	}

	log.Printf("attempt %s: minting as %q paying with %s", attempt.ID(), *username, *method)

	if err := attempt.Confirm(ctx, paymentMethod, *tokenAddr, metrics); err != nil {
		log.Fatalf("mint failed: %s", attempt.FailureMessage())
	}

	fmt.Printf("minted card #%d (metadata %s)\n", attempt.TokenID(), attempt.MetadataCID())
}

func parseMetrics(username, pnl, winRate, netWorth, imageURL string) (domain.MetricsSnapshot, error) {
	parsedPnl, err := decimal.NewFromString(pnl)
	if err != nil {
		return domain.MetricsSnapshot{}, fmt.Errorf("pnl: %w", err)
	}
	parsedWinRate, err := decimal.NewFromString(winRate)
	if err != nil {
		return domain.MetricsSnapshot{}, fmt.Errorf("winrate: %w", err)
	}
	parsedNetWorth, err := decimal.NewFromString(netWorth)
	if err != nil {
		return domain.MetricsSnapshot{}, fmt.Errorf("networth: %w", err)
	}

	return domain.MetricsSnapshot{
		Username:        username,
		TotalProfitLoss: parsedPnl,
		WinRate:         parsedWinRate,
		NetWorth:        parsedNetWorth,
		ImageURL:        imageURL,
	}, nil
}

func printLatestCard(ctx context.Context, baseURL, wallet string) {
	idx := indexer.NewClient(&config.IndexerConfig{BaseURL: baseURL})

	card, err := idx.LatestCard(ctx, wallet)
	if errors.Is(err, indexer.ErrNoCards) {
		log.Printf("wallet %s owns no cards yet", wallet)
		return
	}
	if err != nil {
		log.Printf("indexer lookup failed: %v", err)
		return
	}

	log.Printf("wallet %s latest card: #%d %q minted %s", wallet, card.TokenID, card.Username, card.MintedAt.Format(time.RFC3339))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
