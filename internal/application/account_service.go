package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-todo/internal/domain/repository"
)

// AccountService runs the account lifecycle: signup, login, password change
// and account deletion. Activity and Events are optional.
type AccountService struct {
	Identities  repo.IdentityRepository
	Credentials *CredentialStore
	Tokens      *TokenIssuer
	Activity    ActivityTracker
	Events      EventPublisher
	Logger      *logrus.Logger

	now   func() time.Time
	newID func() string
}

func NewAccountService(identities repo.IdentityRepository, creds *CredentialStore, tokens *TokenIssuer, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Identities:  identities,
		Credentials: creds,
		Tokens:      tokens,
		Logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

type LoginResult struct {
	Token    string
	Identity *entity.Identity
}

func (s *AccountService) Signup(ctx context.Context, handle, password string) (*entity.Identity, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, apperror.ErrHandleRequired
	}
	// a taken handle is reported before any password policy check
	if _, err := s.Identities.FindByHandle(ctx, handle); err == nil {
		return nil, apperror.ErrHandleTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup handle: %w", err)
	}

	hash, err := s.Credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	identity := &entity.Identity{
		ID:             s.newID(),
		Handle:         handle,
		CredentialHash: hash,
		PasswordEpoch:  now.UnixNano(),
		CreatedAt:      now,
	}
	if err := s.Identities.Insert(ctx, identity); err != nil {
		if errors.Is(err, repo.ErrDuplicateHandle) {
			return nil, apperror.ErrHandleTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	s.publish(ctx, EventIdentityCreated, identity)
	return identity, nil
}

func (s *AccountService) Login(ctx context.Context, handle, password string) (*LoginResult, error) {
	identity, err := s.Identities.FindByHandle(ctx, handle)
	if errors.Is(err, repo.ErrNotFound) {
		s.Credentials.Burn(password)
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup handle: %w", err)
	}
	if !s.Credentials.Verify(password, identity.CredentialHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(identity.ID, identity.PasswordEpoch)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("identity_id", identity.ID).Error("issue token failed")
		}
		return nil, err
	}

	if s.Activity != nil {
		if aErr := s.Activity.RecordLogin(ctx, identity.ID, s.now().UTC()); aErr != nil && s.Logger != nil {
			s.Logger.WithError(aErr).WithField("identity_id", identity.ID).Warn("record login activity failed")
		}
	}
	return &LoginResult{Token: token, Identity: identity}, nil
}

// ChangePassword replaces the credential and advances the password epoch, which
// invalidates every token issued before the change.
func (s *AccountService) ChangePassword(ctx context.Context, identity *entity.Identity, oldPassword, newPassword string) (*entity.Identity, error) {
	if !s.Credentials.Verify(oldPassword, identity.CredentialHash) {
		return nil, apperror.ErrInvalidCredentials
	}
	hash, err := s.Credentials.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	epoch, err := s.Identities.UpdateCredential(ctx, identity.ID, hash, identity.NextPasswordEpoch(now))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("update credential: %w", err)
	}

	updated := *identity
	updated.CredentialHash = hash
	updated.PasswordEpoch = epoch

	if s.Activity != nil {
		if aErr := s.Activity.RecordPasswordChange(ctx, identity.ID, now); aErr != nil && s.Logger != nil {
			s.Logger.WithError(aErr).WithField("identity_id", identity.ID).Warn("record password change failed")
		}
	}
	s.publish(ctx, EventIdentityPasswordChanged, &updated)
	return &updated, nil
}

// DeleteAccount removes the identity and all of its tasks. The current password
// is required.
func (s *AccountService) DeleteAccount(ctx context.Context, identity *entity.Identity, password string) error {
	if !s.Credentials.Verify(password, identity.CredentialHash) {
		return apperror.ErrInvalidCredentials
	}
	if err := s.Identities.Delete(ctx, identity.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.ErrInvalidToken
		}
		return fmt.Errorf("delete identity: %w", err)
	}

	if s.Activity != nil {
		if aErr := s.Activity.Forget(ctx, identity.ID); aErr != nil && s.Logger != nil {
			s.Logger.WithError(aErr).WithField("identity_id", identity.ID).Warn("forget activity failed")
		}
	}
	s.publish(ctx, EventIdentityDeleted, identity)
	return nil
}

// Profile is the caller's own account view.
type Profile struct {
	ID        string    `json:"id"`
	Handle    string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	Activity  *Activity `json:"activity,omitempty"`
}

func (s *AccountService) Me(ctx context.Context, identity *entity.Identity) *Profile {
	p := &Profile{ID: identity.ID, Handle: identity.Handle, CreatedAt: identity.CreatedAt}
	if s.Activity == nil {
		return p
	}
	act, err := s.Activity.Load(ctx, identity.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("identity_id", identity.ID).Warn("load activity failed")
		}
		return p
	}
	p.Activity = &act
	return p
}

func (s *AccountService) publish(ctx context.Context, typ string, identity *entity.Identity) {
	if s.Events == nil {
		return
	}
	ev := AccountEvent{Type: typ, IdentityID: identity.ID, Handle: identity.Handle, OccurredAt: s.now().UTC()}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"event": typ, "identity_id": identity.ID}).Warn("publish account event failed")
	}
}
