package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Mariolucas03/Kairos/app/models"
	"github.com/Mariolucas03/Kairos/app/queries"
	"github.com/Mariolucas03/Kairos/pkg/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const startingGameCoins = 500

type AuthService struct {
	Users    UserStore
	Secret   string
	TokenTTL time.Duration
	Now      func() time.Time
	HashCost int
}

type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req *models.SignUp) (*Session, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.Users.IsUserExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	u := &models.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		GameCoins:       startingGameCoins,
		Level:           1,
		StreakCurrent:   1,
		StreakLastLog:   &now,
		MissionRequests: pq.StringArray{},
		Inventory:       models.Inventory{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, queries.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, req *models.SignIn) (*Session, error) {
	u, err := s.Users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrBadCredentials
	}
	return s.session(u)
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	token, err := utils.GenerateToken(u.ID, s.Secret, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}
