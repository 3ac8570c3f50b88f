package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dinner-planner/internal/pkg/common"
)

// GuestRepository is data access for invitees and their plus-ones.
type GuestRepository interface {
	Create(ctx context.Context, firstName, lastName string) (*Guest, error)
	Get(ctx context.Context, id uuid.UUID) (*Guest, error)
	List(ctx context.Context) ([]Guest, error)
	RSVP(ctx context.Context, id uuid.UUID) (*Guest, error)
	AddPlusOne(ctx context.Context, inviteeID uuid.UUID, firstName, lastName string) (*Guest, error)
	PlusOnes(ctx context.Context, inviteeID uuid.UUID) ([]Guest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type guestRepository struct {
	db *DB
}

// NewGuestRepository creates a guest repository over the pool.
func NewGuestRepository(db *DB) GuestRepository {
	return &guestRepository{db: db}
}

const guestColumns = `id, first_name, last_name, has_rsvped, original_invitee_id, created_at, rsvped_at`

func scanGuest(row pgx.Row) (*Guest, error) {
	var g Guest
	err := row.Scan(&g.ID, &g.FirstName, &g.LastName, &g.HasRSVPed,
		&g.OriginalInviteeID, &g.CreatedAt, &g.RSVPedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func validateGuestName(firstName, lastName string) (string, string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return "", "", common.NewValidationError("first and last name are required")
	}
	return firstName, lastName, nil
}

func (r *guestRepository) Create(ctx context.Context, firstName, lastName string) (*Guest, error) {
	firstName, lastName, err := validateGuestName(firstName, lastName)
	if err != nil {
		return nil, err
	}

	g, err := scanGuest(r.db.QueryRow(ctx,
		`INSERT INTO guests (id, first_name, last_name)
		 VALUES ($1, $2, $3)
		 RETURNING `+guestColumns,
		uuid.New(), firstName, lastName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return g, nil
}

func (r *guestRepository) Get(ctx context.Context, id uuid.UUID) (*Guest, error) {
	g, err := scanGuest(r.db.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return g, nil
}

func (r *guestRepository) List(ctx context.Context) ([]Guest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	guests := []Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

// RSVP marks a guest as attending. Repeating the call is harmless, the first
// RSVP timestamp is kept.
func (r *guestRepository) RSVP(ctx context.Context, id uuid.UUID) (*Guest, error) {
	g, err := scanGuest(r.db.QueryRow(ctx,
		`UPDATE guests
		 SET has_rsvped = TRUE, rsvped_at = COALESCE(rsvped_at, $2)
		 WHERE id = $1
		 RETURNING `+guestColumns,
		id, time.Now(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrGuestNotFound
		}
		return nil, fmt.Errorf("failed to record RSVP: %w", err)
	}
	return g, nil
}

// AddPlusOne creates a guest linked to the inviting guest. Plus-ones are
// created already RSVPed since they are announced by an attending invitee,
// and a plus-one cannot bring further plus-ones.
func (r *guestRepository) AddPlusOne(ctx context.Context, inviteeID uuid.UUID, firstName, lastName string) (*Guest, error) {
	firstName, lastName, err := validateGuestName(firstName, lastName)
	if err != nil {
		return nil, err
	}

	invitee, err := r.Get(ctx, inviteeID)
	if err != nil {
		return nil, err
	}
	if invitee.OriginalInviteeID != nil {
		return nil, common.NewValidationError("a plus-one cannot bring a plus-one")
	}

	g, err := scanGuest(r.db.QueryRow(ctx,
		`INSERT INTO guests (id, first_name, last_name, has_rsvped, original_invitee_id, rsvped_at)
		 VALUES ($1, $2, $3, TRUE, $4, $5)
		 RETURNING `+guestColumns,
		uuid.New(), firstName, lastName, inviteeID, time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to add plus-one: %w", err)
	}
	return g, nil
}

func (r *guestRepository) PlusOnes(ctx context.Context, inviteeID uuid.UUID) ([]Guest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE original_invitee_id = $1 ORDER BY created_at`,
		inviteeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plus-ones: %w", err)
	}
	defer rows.Close()

	guests := []Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plus-one: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (r *guestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrGuestNotFound
	}
	return nil
}
