package repositories

import (
	"context"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournalsByOrganization retrieves a paginated list of journals for a given
	// organization using token-based pagination. It returns the journals, a token
	// for the next page, and an error.
	ListJournalsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeVoided bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a new draft journal and its lines, assigning the next
	// sequential journal number for the organization. Draft creation never
	// touches account balances.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (int64, error)

	// ReplaceJournal updates a draft journal's header and replaces its lines.
	ReplaceJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error

	// PostJournal transitions a draft journal to POSTED and applies the given
	// balance deltas, all within a single database transaction. The status flip
	// is guarded by WHERE status = 'DRAFT' so a concurrent double-post fails
	// with apperrors.ErrConflict and no partial write is ever visible.
	PostJournal(ctx context.Context, journalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error

	// PostReversal posts a reversing draft journal, applies its balance deltas
	// and voids the journal it reverses, all within a single database
	// transaction. The reversing journal must be DRAFT and the original must
	// be POSTED; either guard failing returns apperrors.ErrConflict with no
	// partial write.
	PostReversal(ctx context.Context, reversingJournalID string, originalJournalID string, postedBy string, postedAt time.Time, balanceChanges map[string]decimal.Decimal) error

	// DeleteJournal removes a journal and its lines. The service layer guarantees
	// only drafts reach this method.
	DeleteJournal(ctx context.Context, journalID string) error
}

// JournalLineReader defines read operations for journal line data.
type JournalLineReader interface {
	// FindLinesByJournalID retrieves all lines associated with a single journal ID.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// FindLinesByJournalIDs retrieves lines for multiple journal IDs, grouped by journal ID.
	FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated list of lines for a specific
	// account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, organizationID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalLineReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
