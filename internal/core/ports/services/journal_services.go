package services

import (
	"context"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// JournalSvcFacade exposes journal lifecycle operations: draft creation and
// editing, the post transition, deletion of drafts, and reversal of posted
// journals via counter-journals.
type JournalSvcFacade interface {
	CreateJournal(ctx context.Context, organizationID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)
	GetJournalByID(ctx context.Context, organizationID string, journalID string, requestingUserID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, organizationID string, requestingUserID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
	UpdateJournal(ctx context.Context, organizationID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error)
	PostJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) (*domain.Journal, error)
	DeleteJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) error
	ReverseJournal(ctx context.Context, organizationID string, journalID string, actingUserID string) (*domain.Journal, error)
	ListLinesByAccount(ctx context.Context, organizationID string, accountID string, requestingUserID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error)
}
