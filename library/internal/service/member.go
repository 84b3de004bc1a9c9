package service

import (
	"context"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Register creates a member with the user role. Self-registration cannot ask for
// admin; admins are made through UpdateMember or the grant-admin command.
func (s *Service) Register(ctx context.Context, req model.MemberCreateRequest) (model.Member, error) {
	role := auth.RoleUser
	if req.Role != "" {
		r, err := auth.ParseRole(string(req.Role))
		if err != nil {
			return model.Member{}, errors.Wrap(errs.ErrValidation, err.Error())
		}
		if r != auth.RoleUser {
			return model.Member{}, errors.Wrap(errs.ErrForbidden, "role cannot be self-assigned")
		}
	}
	hash, err := auth.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return model.Member{}, errors.Wrap(err, "hash password")
	}
	member, err := s.repo.CreateMember(ctx, model.Member{
		Name:        req.Name,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		Password:    hash,
		Role:        role,
	})
	if err != nil {
		return model.Member{}, err
	}
	s.publish(kafka.ActionMemberRegistered, member.ID, 0)
	return member, nil
}

// Login checks the credentials and issues a fresh token pair. The refresh token
// replaces whatever the member had stored before.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	member, err := s.repo.GetMemberByEmail(ctx, req.Email)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !auth.ComparePassword(req.Password, member.Password) {
		return model.TokenPair{}, errs.ErrInvalidCredentials
	}
	pair, err := s.issueTokens(ctx, member)
	if err != nil {
		return model.TokenPair{}, err
	}
	s.publish(kafka.ActionMemberLogin, member.ID, 0)
	return pair, nil
}

// Refresh rotates the token pair of memberID. The presented token must verify
// against the refresh secret, belong to memberID and equal the stored one.
func (s *Service) Refresh(ctx context.Context, memberID int64, refreshToken string) (model.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, errors.Wrap(errs.ErrForbidden, err.Error())
	}
	if claims.UserID != memberID {
		return model.TokenPair{}, errors.Wrap(errs.ErrForbidden, "token owner mismatch")
	}
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenPair{}, errors.Wrap(errs.ErrForbidden, "member is gone")
		}
		return model.TokenPair{}, err
	}
	if member.RefreshToken == nil || *member.RefreshToken != refreshToken {
		return model.TokenPair{}, errors.Wrap(errs.ErrForbidden, "refresh token revoked")
	}
	return s.issueTokens(ctx, member)
}

// Logout revokes the stored refresh token. A member deleted meanwhile has
// nothing left to revoke.
func (s *Service) Logout(ctx context.Context, memberID int64) error {
	err := s.repo.SetRefreshToken(ctx, memberID, nil)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) issueTokens(ctx context.Context, member model.Member) (model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(member.ID, member.Role)
	if err != nil {
		return model.TokenPair{}, errors.Wrap(err, "access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken(member.ID, member.Role)
	if err != nil {
		return model.TokenPair{}, errors.Wrap(err, "refresh token")
	}
	if err := s.repo.SetRefreshToken(ctx, member.ID, &refresh); err != nil {
		return model.TokenPair{}, err
	}
	s.log.Debug("tokens issued", zap.Int64("memberID", member.ID))
	return model.TokenPair{
		MemberID:     member.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *Service) GetMember(ctx context.Context, id int64) (model.Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) UpdateMember(ctx context.Context, id int64, req model.MemberUpdateRequest) (model.Member, error) {
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.hashCost)
		if err != nil {
			return model.Member{}, errors.Wrap(err, "hash password")
		}
		req.Password = &hash
	}
	return s.repo.UpdateMember(ctx, id, req)
}

func (s *Service) DeleteMember(ctx context.Context, id int64) (model.Member, error) {
	return s.repo.DeleteMember(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, page model.PageRequest) (model.Page[model.Member], error) {
	return s.repo.ListMembers(ctx, page)
}
