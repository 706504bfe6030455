package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/metastamp/server/internal/config"
	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/ledger"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/platforms"
	"codeberg.org/metastamp/server/internal/storage"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/creators"
	"codeberg.org/metastamp/server/metastamp/stamping"
)

// creates the watermarking, detection and ledger services
func InitializeServices(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, contentRepo *content.Repository, creatorRepo *creators.Repository) (*Services, error) {
	signer, err := watermark.NewSigner([]byte(cfg.WatermarkSigningKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermark signer: %w", err)
	}

	local, err := storage.NewLocal(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	ledgerStore := ledger.NewPostgresStore(db)
	if err := ledgerStore.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger table: %w", err)
	}

	chain, err := ledger.New(ledgerStore, cfg.LedgerNodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}

	contract, err := ledger.NewContract()
	if err != nil {
		return nil, err
	}

	fingerprintStore := detection.NewPostgresFingerprintStore(db)
	if err := fingerprintStore.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize fingerprint table: %w", err)
	}

	detectionConfig := detection.DefaultConfig()
	fingerprints := detection.NewIndexedFingerprintStore(fingerprintStore, detectionConfig.NumBands, detectionConfig.SimilarityThreshold)

	// load persisted fingerprints into the in-memory LSH index
	if err := fingerprints.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to load fingerprints: %w", err)
	}

	logger.Info("fingerprint index loaded", "records", fingerprints.Size())

	scanner := detection.NewScanner(detectionConfig, signer, contentResolver{contents: contentRepo}).
		WithFingerprints(fingerprints)

	stamper := stamping.NewService(contentRepo, creatorRepo, local, signer).
		WithFingerprints(fingerprints).
		WithLedger(chain)

	return &Services{
		Signer:   signer,
		Storage:  local,
		Stamping: stamper,
		Scanner:  scanner,
		Ledger:   chain,
		Contract: contract,
		Catalog:  platforms.Default(),
	}, nil
}
