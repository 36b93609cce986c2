package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/xid"
	"golang.org/x/sync/singleflight"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/cache"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
	"github.com/sakif/devconnect/internal/weburl"
)

// ProfileInput is the field set for a profile upsert. Skills arrives as the
// raw comma-delimited string the form submits; the service owns splitting
// it.
type ProfileInput struct {
	Status         string `json:"status"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
	Xing           string `json:"xing"`
}

// ExperienceInput is the field set for adding a work-history entry.
type ExperienceInput struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	From        model.Date  `json:"from"`
	To          *model.Date `json:"to"`
	Current     bool        `json:"current"`
	Description string      `json:"description"`
}

// EducationInput is the field set for adding an education entry.
type EducationInput struct {
	School       string      `json:"school"`
	Degree       string      `json:"degree"`
	FieldOfStudy string      `json:"fieldofstudy"`
	Location     string      `json:"location"`
	From         model.Date  `json:"from"`
	To           *model.Date `json:"to"`
	Current      bool        `json:"current"`
	Description  string      `json:"description"`
}

// ProfileService handles profile documents: owner-scoped upsert, entry-list
// mutation, and the public read paths.
type ProfileService struct {
	profiles repository.Profiles
	cache    *cache.ProfileCache // nil when Redis is not configured
	group    singleflight.Group
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService. cache may be nil.
func NewProfileService(profiles repository.Profiles, profileCache *cache.ProfileCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		cache:    profileCache,
		logger:   logger,
	}
}

// Upsert builds a complete replacement field set and writes it atomically,
// keyed by the owner. Concurrent upserts for the same owner resolve to
// last-writer-wins on the whole set; partial updates are not merged — a
// documented limitation, not something this layer tries to paper over.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	status := strings.TrimSpace(in.Status)
	skills := splitSkills(in.Skills)

	var fields []apperror.FieldError
	if status == "" {
		fields = append(fields, apperror.FieldError{Msg: "status is required", Param: "status"})
	}
	if len(skills) == 0 {
		fields = append(fields, apperror.FieldError{Msg: "skills is required", Param: "skills"})
	}
	if len(fields) > 0 {
		return nil, apperror.Invalid(fields...)
	}

	profile := &model.Profile{
		UserID:         userID,
		Status:         status,
		Company:        strings.TrimSpace(in.Company),
		Location:       strings.TrimSpace(in.Location),
		Bio:            strings.TrimSpace(in.Bio),
		GithubUsername: strings.TrimSpace(in.GithubUsername),
		Skills:         skills,
	}

	if in.Website != "" {
		website, err := weburl.Normalize(in.Website)
		if err != nil {
			return nil, apperror.ValidationFailed("website", "website must be a valid url")
		}
		profile.Website = website
	}

	social, err := normalizeSocial(in)
	if err != nil {
		return nil, err
	}
	profile.Social = social

	// The store's upsert never writes the entry lists, so an existing
	// profile keeps its experience and education; the reload below fills
	// them into the returned profile.
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, apperror.Internal("service/profile: upserting profile for "+userID, err)
	}

	s.invalidateList(ctx)
	s.logger.Info("profile upserted", slog.String("userID", userID))
	return profile, nil
}

// AddExperience validates and prepends a work-history entry.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*model.Profile, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, apperror.FieldError{Msg: "title is required", Param: "title"})
	}
	if strings.TrimSpace(in.Company) == "" {
		fields = append(fields, apperror.FieldError{Msg: "company is required", Param: "company"})
	}
	fields = appendDateErrors(fields, in.From, in.To)
	if len(fields) > 0 {
		return nil, apperror.Invalid(fields...)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.Experience{
		ID:          xid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}

	// Most-recent-first: new entries go to the head.
	profile.Experience = append([]model.Experience{entry}, profile.Experience...)

	if err := s.profiles.UpdateEntries(ctx, profile); err != nil {
		return nil, apperror.Internal("service/profile: saving experience for "+userID, err)
	}

	s.invalidateList(ctx)
	return profile, nil
}

// RemoveExperience deletes the entry with the given id. Removing an id that
// isn't there is a no-op, not an error — delete is idempotent.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := profile.Experience[:0:0]
	for _, e := range profile.Experience {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	profile.Experience = kept

	if err := s.profiles.UpdateEntries(ctx, profile); err != nil {
		return nil, apperror.Internal("service/profile: removing experience for "+userID, err)
	}

	s.invalidateList(ctx)
	return profile, nil
}

// AddEducation validates and prepends an education entry.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*model.Profile, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(in.School) == "" {
		fields = append(fields, apperror.FieldError{Msg: "school is required", Param: "school"})
	}
	if strings.TrimSpace(in.Degree) == "" {
		fields = append(fields, apperror.FieldError{Msg: "degree is required", Param: "degree"})
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		fields = append(fields, apperror.FieldError{Msg: "field of study is required", Param: "fieldofstudy"})
	}
	fields = appendDateErrors(fields, in.From, in.To)
	if len(fields) > 0 {
		return nil, apperror.Invalid(fields...)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := model.Education{
		ID:           xid.New().String(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		Location:     strings.TrimSpace(in.Location),
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}

	profile.Education = append([]model.Education{entry}, profile.Education...)

	if err := s.profiles.UpdateEntries(ctx, profile); err != nil {
		return nil, apperror.Internal("service/profile: saving education for "+userID, err)
	}

	s.invalidateList(ctx)
	return profile, nil
}

// RemoveEducation deletes the entry with the given id; idempotent.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := profile.Education[:0:0]
	for _, e := range profile.Education {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	profile.Education = kept

	if err := s.profiles.UpdateEntries(ctx, profile); err != nil {
		return nil, apperror.Internal("service/profile: removing education for "+userID, err)
	}

	s.invalidateList(ctx)
	return profile, nil
}

// Mine returns the caller's own profile.
func (s *ProfileService) Mine(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// All returns every profile. Results are served from the Redis cache when
// one is configured; a miss falls through to the store, with singleflight
// collapsing concurrent misses into one query.
func (s *ProfileService) All(ctx context.Context) ([]model.Profile, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetList(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			// Cache trouble must not take down a public read path.
			s.logger.Warn("profile list cache read failed", slog.String("error", err.Error()))
		}
	}

	v, err, _ := s.group.Do("profiles:list", func() (any, error) {
		list, err := s.profiles.List(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetList(ctx, list); err != nil {
				s.logger.Warn("profile list cache write failed", slog.String("error", err.Error()))
			}
		}
		return list, nil
	})
	if err != nil {
		return nil, apperror.Internal("service/profile: listing profiles", err)
	}
	return v.([]model.Profile), nil
}

// ByUserID returns a profile addressed by its owner's id. Malformed ids
// simply match nothing, so unknown and malformed collapse into the same
// NotFound — no driver error shape leaks out as a 500.
func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.NotFound("there is no profile for this user")
	}
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *ProfileService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("profile list cache invalidation failed", slog.String("error", err.Error()))
	}
}

// splitSkills turns "Go, SQL,,  Docker " into ["Go","SQL","Docker"].
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// normalizeSocial canonicalizes every provided platform link. Unset
// platforms stay empty.
func normalizeSocial(in ProfileInput) (model.Social, error) {
	var social model.Social
	links := []struct {
		param string
		value string
		dst   *string
	}{
		{"youtube", in.Youtube, &social.Youtube},
		{"twitter", in.Twitter, &social.Twitter},
		{"facebook", in.Facebook, &social.Facebook},
		{"linkedin", in.Linkedin, &social.Linkedin},
		{"instagram", in.Instagram, &social.Instagram},
		{"xing", in.Xing, &social.Xing},
	}
	for _, l := range links {
		if l.value == "" {
			continue
		}
		normalized, err := weburl.Normalize(l.value)
		if err != nil {
			return model.Social{}, apperror.ValidationFailed(l.param, l.param+" must be a valid url")
		}
		*l.dst = normalized
	}
	return social, nil
}

// appendDateErrors applies the shared from/to rules: from is required, and
// when both ends are present from must precede to.
func appendDateErrors(fields []apperror.FieldError, from model.Date, to *model.Date) []apperror.FieldError {
	if from.IsZero() {
		fields = append(fields, apperror.FieldError{Msg: "from date is required", Param: "from"})
	} else if to != nil && !to.IsZero() && !from.Before(to.Time) {
		fields = append(fields, apperror.FieldError{Msg: "from date must be before to date", Param: "from"})
	}
	return fields
}
