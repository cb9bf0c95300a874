package service

import (
	"context"

	"zunda_backend/internal/cache"
	"zunda_backend/internal/domain"
	"zunda_backend/internal/repository"
)

// UserService serves profile reads through the cache and keeps the cached
// snapshot coherent with balance writes.
type UserService struct {
	userRepo *repository.UserRepository
	cache    *cache.UserCache
}

func NewUserService(userRepo *repository.UserRepository, userCache *cache.UserCache) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    userCache,
	}
}

// GetUser returns the profile, serving from the cache when a snapshot is
// present. On a miss the row is read from the store and cached for 5 minutes.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var cached domain.User
	if s.cache.Get(ctx, id, &cached) {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, id, user)
	return user, nil
}

// GetUserFresh bypasses the cache and reads the authoritative row.
func (s *UserService) GetUserFresh(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile writes the mutable fields and refreshes the cached snapshot.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, bio, avatar string) (*domain.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, id, name, bio, avatar)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, id, user)
	return user, nil
}

// InvalidateUsers drops cached snapshots after a balance mutation so a
// read-after-write on the same request path is never stale.
func (s *UserService) InvalidateUsers(ctx context.Context, ids ...int64) {
	s.cache.Invalidate(ctx, ids...)
}
