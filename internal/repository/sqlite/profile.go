package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

var _ repository.Profiles = (*DB)(nil)

const profileColumns = `
	p.id, p.user_id, p.status, p.company, p.website, p.location, p.bio,
	p.github_username, p.skills, p.social, p.experience, p.education,
	p.created_at, p.updated_at,
	u.id, u.name, u.avatar`

const profileJoin = `
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

// Upsert inserts the profile or replaces every profile field of the row
// keyed by user_id — one atomic statement, so concurrent upserts for the
// same owner resolve to last-writer-wins on the full field set with no
// interleaving. The entry lists are deliberately absent from the update
// branch: upsert never touches experience or education, so it cannot race
// an AddExperience/AddEducation into wiping them.
func (db *DB) Upsert(ctx context.Context, profile *model.Profile) error {
	skills, social, experience, education, err := marshalSubDocs(profile)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	newID := xid.New().String()

	// On conflict the existing id, created_at, and entry lists survive;
	// every profile field is overwritten. Not a merge: fields absent from
	// this call's input arrive here as zero values and are stored as such.
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (
			id, user_id, status, company, website, location, bio,
			github_username, skills, social, experience, education,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			status          = excluded.status,
			company         = excluded.company,
			website         = excluded.website,
			location        = excluded.location,
			bio             = excluded.bio,
			github_username = excluded.github_username,
			skills          = excluded.skills,
			social          = excluded.social,
			updated_at      = excluded.updated_at`,
		newID, profile.UserID, profile.Status, profile.Company, profile.Website,
		profile.Location, profile.Bio, profile.GithubUsername,
		skills, social, experience, education,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting profile for user %s: %w", profile.UserID, err)
	}

	// Read the canonical row back (id/created_at differ depending on
	// whether the insert or the update branch ran).
	stored, err := db.GetByUserID(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("sqlite: reloading upserted profile: %w", err)
	}
	*profile = *stored
	return nil
}

// GetByUserID returns the profile owned by userID with the owner joined in.
func (db *DB) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT`+profileColumns+profileJoin+` WHERE p.user_id = ?`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("there is no profile for this user")
		}
		return nil, fmt.Errorf("sqlite: getting profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// List returns all profiles, newest first, owners joined.
func (db *DB) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT`+profileColumns+profileJoin+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profiles: %w", err)
	}

	return profiles, nil
}

// UpdateEntries persists only the experience and education lists.
func (db *DB) UpdateEntries(ctx context.Context, profile *model.Profile) error {
	experience, err := json.Marshal(profile.Experience)
	if err != nil {
		return fmt.Errorf("sqlite: encoding experience: %w", err)
	}
	education, err := json.Marshal(profile.Education)
	if err != nil {
		return fmt.Errorf("sqlite: encoding education: %w", err)
	}

	profile.UpdatedAt = time.Now().UTC()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE profiles SET experience = ?, education = ?, updated_at = ?
		 WHERE user_id = ?`,
		experience, education, profile.UpdatedAt, profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating entries for user %s: %w", profile.UserID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking entries update: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("there is no profile for this user")
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.Profile, error) {
	var (
		p          model.Profile
		owner      model.ProfileUser
		skills     []byte
		social     []byte
		experience []byte
		education  []byte
	)

	err := s.Scan(
		&p.ID, &p.UserID, &p.Status, &p.Company, &p.Website, &p.Location,
		&p.Bio, &p.GithubUsername, &skills, &social, &experience, &education,
		&p.CreatedAt, &p.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Avatar,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skills, &p.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	if err := json.Unmarshal(social, &p.Social); err != nil {
		return nil, fmt.Errorf("decoding social: %w", err)
	}
	if err := json.Unmarshal(experience, &p.Experience); err != nil {
		return nil, fmt.Errorf("decoding experience: %w", err)
	}
	if err := json.Unmarshal(education, &p.Education); err != nil {
		return nil, fmt.Errorf("decoding education: %w", err)
	}

	p.User = &owner
	return &p, nil
}

func marshalSubDocs(profile *model.Profile) (skills, social, experience, education []byte, err error) {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experience == nil {
		profile.Experience = []model.Experience{}
	}
	if profile.Education == nil {
		profile.Education = []model.Education{}
	}

	if skills, err = json.Marshal(profile.Skills); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("sqlite: encoding skills: %w", err)
	}
	if social, err = json.Marshal(profile.Social); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("sqlite: encoding social: %w", err)
	}
	if experience, err = json.Marshal(profile.Experience); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("sqlite: encoding experience: %w", err)
	}
	if education, err = json.Marshal(profile.Education); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("sqlite: encoding education: %w", err)
	}
	return skills, social, experience, education, nil
}
