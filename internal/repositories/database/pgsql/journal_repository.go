package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
)

// PgxJournalRepository persists journal entries and their lines in
// PostgreSQL. An entry and its lines always move together.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_date, description, is_posted, approved_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`
const lineColumns = `line_id, entry_id, account_id, account_code, debit, credit, description, cost_center_id`

const insertLineQuery = `
	INSERT INTO journal_lines (line_id, entry_id, account_id, account_code, debit, credit, description, cost_center_id)
	VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''));
`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var description, approvedBy *string
	err := row.Scan(
		&e.EntryID, &e.EntryDate, &description, &e.IsPosted, &approvedBy, &e.PostedAt,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		e.Description = *description
	}
	if approvedBy != nil {
		e.ApprovedBy = *approvedBy
	}
	return &e, nil
}

func scanLine(row pgx.Row) (*domain.JournalLine, error) {
	var l domain.JournalLine
	var description, costCenterID *string
	err := row.Scan(
		&l.LineID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit,
		&description, &costCenterID,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		l.Description = *description
	}
	if costCenterID != nil {
		l.CostCenterID = *costCenterID
	}
	return &l, nil
}

// SaveEntry persists the entry and all of its lines in one transaction. The
// lines are inserted with a batch; any failure rolls back the whole entry.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryQuery := `
		INSERT INTO journal_entries (entry_id, entry_date, description, is_posted, approved_by, posted_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		entry.EntryID, entry.EntryDate, entry.Description, entry.IsPosted,
		entry.ApprovedBy, entry.PostedAt,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(insertLineQuery,
			line.LineID, line.EntryID, line.AccountID, line.AccountCode,
			line.Debit, line.Credit, line.Description, line.CostCenterID,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert journal line for entry %s: %w", entry.EntryID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close line batch for entry %s: %w", entry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID returns the entry header.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query journal entry: %w", err)
	}
	return entry, nil
}

// FindLinesByEntryID returns the entry's lines in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal lines: %w", err)
	}
	return lines, nil
}

// FindLineByID returns a single journal line.
func (r *PgxJournalRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE line_id = $1;`
	line, err := scanLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("journal line %s: %w", lineID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query journal line: %w", err)
	}
	return line, nil
}

// MarkEntryPosted flips the posted flag with a compare-and-set so that
// concurrent posts of the same entry cannot both succeed.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, approvedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_posted = TRUE, approved_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $1 AND is_posted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, approvedBy, postedAt)
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM journal_entries WHERE entry_id = $1)`, entryID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check journal entry %s: %w", entryID, err)
		}
		if !exists {
			return fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("journal entry %s already posted: %w", entryID, apperrors.ErrConflict)
	}
	return nil
}
