package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csquare-club/server/internal/domain/team"
)

var _ team.Repository = (*TeamRepository)(nil)

type TeamRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *TeamRepository) queryer() DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const memberColumns = `id, name, position, bio, initials, photo, linkedin, github, portfolio,
       email, skills, join_date, is_active, is_core, display_order, created_at, updated_at`

func (r *TeamRepository) List(ctx context.Context, filters team.Filters) ([]team.Member, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+memberColumns+`
  FROM team_members
 WHERE ($1::boolean IS NULL OR is_active = $1)
   AND ($2::boolean IS NULL OR is_core = $2)
   AND ($3 = '' OR position ILIKE '%' || $3 || '%')
 ORDER BY display_order ASC, created_at DESC
`, filters.Active, filters.Core, filters.Position)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	items := make([]team.Member, 0, 16)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		items = append(items, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return items, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*team.Member, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+memberColumns+`
  FROM team_members
 WHERE id = $1
`, id)

	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, team.ErrNotFound
		}
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return &member, nil
}

func (r *TeamRepository) Create(ctx context.Context, member *team.Member) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO team_members (id, name, position, bio, initials, photo, linkedin, github,
                          portfolio, email, skills, join_date, is_active, is_core,
                          display_order, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`,
		member.ID, member.Name, member.Position, member.Bio, member.Initials,
		member.Photo, member.LinkedIn, member.GitHub, member.Portfolio, member.Email,
		member.Skills, member.JoinDate, member.IsActive, member.IsCore,
		member.DisplayOrder, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, member *team.Member) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE team_members
   SET name = $2, position = $3, bio = $4, initials = $5, photo = $6,
       linkedin = $7, github = $8, portfolio = $9, email = $10, skills = $11,
       join_date = $12, is_active = $13, is_core = $14, display_order = $15,
       updated_at = $16
 WHERE id = $1
`,
		member.ID, member.Name, member.Position, member.Bio, member.Initials,
		member.Photo, member.LinkedIn, member.GitHub, member.Portfolio, member.Email,
		member.Skills, member.JoinDate, member.IsActive, member.IsCore,
		member.DisplayOrder, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (team.Member, error) {
	var member team.Member
	err := row.Scan(
		&member.ID, &member.Name, &member.Position, &member.Bio, &member.Initials,
		&member.Photo, &member.LinkedIn, &member.GitHub, &member.Portfolio, &member.Email,
		&member.Skills, &member.JoinDate, &member.IsActive, &member.IsCore,
		&member.DisplayOrder, &member.CreatedAt, &member.UpdatedAt,
	)
	return member, err
}
