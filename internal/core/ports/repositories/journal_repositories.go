package repositories

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// JournalRepository defines persistence operations for journal entries and
// their lines. An entry and its lines are stored atomically; lines never
// exist without their parent entry.
type JournalRepository interface {
	// SaveEntry persists the entry and all of its lines in one transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// FindEntryByID returns the entry header or apperrors.ErrNotFound.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID returns the entry's lines in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLineByID returns a single journal line or apperrors.ErrNotFound.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error)

	// MarkEntryPosted flips the posted flag for an unposted entry
	// (compare-and-set). Returns apperrors.ErrConflict when the entry was
	// already posted, apperrors.ErrNotFound when it does not exist.
	MarkEntryPosted(ctx context.Context, entryID string, approvedBy string, postedAt time.Time) error
}
