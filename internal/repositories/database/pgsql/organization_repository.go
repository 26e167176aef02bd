package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintalabs/bizcore/internal/apperrors"
	"github.com/quintalabs/bizcore/internal/core/domain"
	portsrepo "github.com/quintalabs/bizcore/internal/core/ports/repositories"
	"github.com/quintalabs/bizcore/internal/models"
	"github.com/quintalabs/bizcore/internal/utils/mapping"
)

const organizationColumns = `organization_id, name, description, default_currency_code, is_active, journal_seq, created_at, created_by, last_updated_at, last_updated_by`

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepository = (*PgxOrganizationRepository)(nil)

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.DefaultCurrencyCode,
		&m.IsActive,
		&m.JournalSeq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

// SaveOrganization persists a new organization. The journal sequence starts at zero.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	m := mapping.ToModelOrganization(organization)

	query := `
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.Description,
		m.DefaultCurrencyCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return fmt.Errorf("failed to save organization %s: %w", m.OrganizationID, err)
	}
	return nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE organization_id = $1;`

	org, err := scanOrganization(r.Pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization by ID %s: %w", organizationID, err)
	}
	return org, nil
}

// UpdateOrganization updates an existing organization's details.
func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, organization domain.Organization) error {
	m := mapping.ToModelOrganization(organization)

	query := `
		UPDATE organizations
		SET name = $2, description = $3, default_currency_code = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE organization_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.Description,
		m.DefaultCurrencyCode,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization %s: %w", m.OrganizationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListOrganizationsByUser retrieves the organizations a user belongs to.
// Memberships with the REMOVED role are excluded.
func (r *PgxOrganizationRepository) ListOrganizationsByUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.description, o.default_currency_code, o.is_active, o.journal_seq, o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN user_organizations uo ON uo.organization_id = o.organization_id
		WHERE uo.user_id = $1 AND uo.role != 'REMOVED'
		ORDER BY o.name;
	`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations for user %s: %w", userID, err)
	}
	defer rows.Close()

	organizations := []domain.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization row for user %s: %w", userID, err)
		}
		organizations = append(organizations, *org)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating organization rows for user %s: %w", userID, rows.Err())
	}

	return organizations, nil
}

// AddUserToOrganization records a user's membership. An existing membership row
// is updated in place so a removed user can be re-added with a new role.
func (r *PgxOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role;
	`

	_, err := r.Pool.Exec(ctx, query, membership.UserID, membership.OrganizationID, membership.Role, membership.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to add user %s to organization %s: %w", membership.UserID, membership.OrganizationID, err)
	}
	return nil
}

// FindUserOrganizationRole retrieves a user's membership record for an organization.
func (r *PgxOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID string, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT user_id, organization_id, role, joined_at
		FROM user_organizations
		WHERE user_id = $1 AND organization_id = $2;
	`

	var m models.UserOrganization
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(&m.UserID, &m.OrganizationID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership for user %s in organization %s: %w", userID, organizationID, err)
	}

	membership := mapping.ToDomainUserOrganization(m)
	return &membership, nil
}

// ListUsersInOrganization retrieves all memberships of an organization with user names.
func (r *PgxOrganizationRepository) ListUsersInOrganization(ctx context.Context, organizationID string) ([]domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, uo.organization_id, uo.role, uo.joined_at, u.name
		FROM user_organizations uo
		JOIN users u ON u.user_id = uo.user_id
		WHERE uo.organization_id = $1 AND uo.role != 'REMOVED' AND u.deleted_at IS NULL
		ORDER BY uo.joined_at;
	`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	memberships := []domain.UserOrganization{}
	for rows.Next() {
		var m models.UserOrganization
		var userName string
		if err := rows.Scan(&m.UserID, &m.OrganizationID, &m.Role, &m.JoinedAt, &userName); err != nil {
			return nil, fmt.Errorf("failed to scan membership row for organization %s: %w", organizationID, err)
		}
		membership := mapping.ToDomainUserOrganization(m)
		membership.UserName = userName
		memberships = append(memberships, membership)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating membership rows for organization %s: %w", organizationID, rows.Err())
	}

	return memberships, nil
}
