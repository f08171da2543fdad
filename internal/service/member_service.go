package service

import (
	"context"

	"labelhub/internal/auth"
	"labelhub/internal/entity"
	"labelhub/internal/storage"
)

// MemberService manages the members of one artist. Every operation first
// checks that the parent artist is visible to the caller.
type MemberService struct {
	artists *ContentService[entity.Artist]
	members *ContentService[entity.Member]
}

// NewMemberService creates a MemberService.
func NewMemberService(artists *ContentService[entity.Artist], members *ContentService[entity.Member]) *MemberService {
	return &MemberService{artists: artists, members: members}
}

// Members returns the underlying content service.
func (s *MemberService) Members() *ContentService[entity.Member] {
	return s.members
}

// List returns the members of artistID.
func (s *MemberService) List(ctx context.Context, p *auth.Principal, artistID uint, query entity.ContentQuery) ([]entity.Member, *entity.Meta, error) {
	if _, err := s.artists.Get(ctx, p, artistID); err != nil {
		return nil, nil, err
	}
	filters := make(map[string]interface{}, len(query.Filters)+1)
	for key, value := range query.Filters {
		filters[key] = value
	}
	filters["artist_id"] = artistID
	query.Filters = filters
	return s.members.List(ctx, p, query)
}

// Get loads member id of artistID.
func (s *MemberService) Get(ctx context.Context, p *auth.Principal, artistID, id uint) (*entity.Member, error) {
	if _, err := s.artists.Get(ctx, p, artistID); err != nil {
		return nil, err
	}
	return s.get(ctx, p, artistID, id)
}

func (s *MemberService) get(ctx context.Context, p *auth.Principal, artistID, id uint) (*entity.Member, error) {
	member, err := s.members.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if member.ArtistID != artistID {
		return nil, notFound("member #%d of artist #%d", id, artistID)
	}
	return member, nil
}

// Create adds a member to artistID.
func (s *MemberService) Create(ctx context.Context, p *auth.Principal, artistID uint, req *entity.MemberRequest, files map[string]storage.Upload) (*entity.Member, error) {
	if _, err := s.artists.Get(ctx, p, artistID); err != nil {
		return nil, err
	}
	return s.members.Create(ctx, p, func(m *entity.Member) error {
		if err := req.Apply(m); err != nil {
			return err
		}
		m.ArtistID = artistID
		return nil
	}, files)
}

// Update changes member id of artistID.
func (s *MemberService) Update(ctx context.Context, p *auth.Principal, artistID, id uint, req *entity.MemberRequest, files map[string]storage.Upload) (*entity.Member, error) {
	if _, err := s.Get(ctx, p, artistID, id); err != nil {
		return nil, err
	}
	return s.members.Update(ctx, p, id, func(m *entity.Member) error {
		if err := req.Apply(m); err != nil {
			return err
		}
		m.ArtistID = artistID
		return nil
	}, files)
}

// Delete removes member id of artistID and its photo.
func (s *MemberService) Delete(ctx context.Context, p *auth.Principal, artistID, id uint) error {
	if _, err := s.Get(ctx, p, artistID, id); err != nil {
		return err
	}
	return s.members.Delete(ctx, p, id)
}
