package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/metastamp/server/internal/botdefense"
	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/config"
	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/ledger"
	"codeberg.org/metastamp/server/internal/notifications"
	"codeberg.org/metastamp/server/internal/platforms"
	"codeberg.org/metastamp/server/internal/storage"
	"codeberg.org/metastamp/server/internal/watermark"
	ws "codeberg.org/metastamp/server/internal/websocket"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/creators"
	"codeberg.org/metastamp/server/metastamp/stamping"
	"codeberg.org/metastamp/server/metastamp/usage"
)

// holds all dependencies and state for the API server
type Server struct {
	db            *pgxpool.Pool
	config        *config.Config
	contentRepo   *content.Repository
	usageRepo     *usage.Repository
	creatorRepo   *creators.Repository
	notifications *notifications.Service
	services      *Services
	hub           *ws.Hub
	router        *gin.Engine
	buffer        *buffer.TouchBuffer
	flusher       *buffer.Flusher
	providers     []string
	botDefense    *botdefense.Defense
}

// holds the watermarking, detection and ledger services
type Services struct {
	Signer   *watermark.Signer
	Storage  *storage.Local
	Stamping *stamping.Service
	Scanner  *detection.Scanner
	Ledger   *ledger.Ledger
	Contract *ledger.Contract
	Catalog  *platforms.Catalog
}
