package services

import (
	"context"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/corebooks/ledger_backend/internal/dto"
)

// JournalService defines the operations of the journal engine.
type JournalService interface {
	// CreateEntry validates and persists a balanced journal entry with its
	// lines. The entry is created unposted.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry transitions an entry from unposted to posted, recording the
	// approver. Posted entries are final and feed statements.
	PostEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error)

	// GetEntryByID returns the entry with its lines populated.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}
