// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/slice"
	"github.com/taibuivan/mangashelf/pkg/slug"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// # Contracts

// BlobStore persists avatars and turns references into public URLs.
type BlobStore interface {
	Save(context context.Context, dir, filename string, r io.Reader) (string, error)
	Delete(context context.Context, ref string) error
	URL(ref string) string
}

// Mailer delivers verification tokens to the account's address.
type Mailer interface {
	SendVerification(context context.Context, user *User, token string) error
}

// LogMailer writes verification tokens to the log instead of sending mail.
type LogMailer struct {
	Logger *slog.Logger
}

// SendVerification logs the token at debug level.
func (mailer LogMailer) SendVerification(context context.Context, user *User, token string) error {
	mailer.Logger.DebugContext(context, "email_verification_issued",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("token", token),
	)
	return nil
}

// usernamePattern allows letters, digits and @ . + - _.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// fallbackSlug is used when a username has no slug-safe characters.
const fallbackSlug = "user"

// # Service Layer

// Service implements the account rules.
type Service struct {
	repo   Repository
	tokens TokenStore
	blobs  BlobStore
	mailer Mailer
	logger *slog.Logger
}

// NewService constructs an account [Service].
func NewService(repo Repository, tokens TokenStore, blobs BlobStore, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, blobs: blobs, mailer: mailer, logger: logger}
}

/*
Register validates and persists a new account.

Description: The slug is derived from the username. Each unique violation on
the slug constraint moves to the next candidate (base, base-2, base-3, ...)
until the insert succeeds or the context ends. A taken username or email is
reported as CONFLICT without retrying.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The created account
  - error: VALIDATION_ERROR or CONFLICT
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Gender == "" {
		input.Gender = GenderNotSpecified
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, minUsernameLength).
		MaxLen(FieldUsername, input.Username, maxUsernameLength).
		Custom(FieldUsername, input.Username != "" && !usernamePattern.MatchString(input.Username),
			"may only contain letters, digits and @ . + - _").
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, maxEmailLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, minPasswordLength).
		MaxLen(FieldPassword, input.Password, maxPasswordLength).
		OneOf(FieldGender, string(input.Gender), Genders...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_hash_password_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Gender:       input.Gender,
		IsAdult:      input.IsAdult,
		Role:         sec.RoleMember,
	}
	if err := service.insertWithUniqueSlug(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("slug", user.Slug),
	)

	service.issueVerification(context, user)
	return service.withURLs(user), nil
}

func (service *Service) insertWithUniqueSlug(context context.Context, user *User) error {
	base := slug.From(user.Username)
	if base == "" {
		base = fallbackSlug
	}

	for attempt := 1; ; attempt++ {
		if err := context.Err(); err != nil {
			return err
		}

		user.Slug = slug.WithSuffix(base, attempt)
		err := service.repo.Create(context, user)
		switch {
		case err == nil:
			return nil
		case dberr.IsUniqueViolation(err, schema.UserAccount.SlugConstraint):
			service.logger.Debug("user_slug_taken",
				slog.String("slug", user.Slug),
				slog.String("constraint", dberr.ConstraintName(err)),
				slog.Int("attempt", attempt),
			)
		case dberr.IsUniqueViolation(err, schema.UserAccount.UsernameConstraint):
			return apperr.Conflict("Username is already taken").WithCause(err)
		case dberr.IsUniqueViolation(err, schema.UserAccount.EmailConstraint):
			return apperr.Conflict("Email is already registered").WithCause(err)
		default:
			return err
		}
	}
}

/*
Authenticate checks a username or email and a password.

Returns:
  - *User: The account
  - error: UNAUTHORIZED with the same message for an unknown login and a
    wrong password
*/
func (service *Service) Authenticate(context context.Context, login, password string) (*User, error) {
	user, err := service.repo.FindByLogin(context, strings.TrimSpace(login))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	return service.withURLs(user), nil
}

// FindByID returns an account by ID.
func (service *Service) FindByID(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("User")
	}
	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return service.withURLs(user), nil
}

// Me returns the actor's own account, including private fields.
func (service *Service) Me(context context.Context, actor sec.Actor) (*User, error) {
	return service.FindByID(context, actor.UserID)
}

// GetProfile returns the public profile behind a slug.
func (service *Service) GetProfile(context context.Context, profileSlug string) (*Profile, error) {
	user, err := service.repo.FindBySlug(context, profileSlug)
	if err != nil {
		return nil, err
	}
	return service.withURLs(user).Public(), nil
}

// RecentUsers returns the most recently joined accounts.
func (service *Service) RecentUsers(context context.Context) ([]*Profile, error) {
	users, err := service.repo.Recent(context, constants.RecentUsersLimit)
	if err != nil {
		return nil, err
	}

	return slice.Map(users, func(user *User) *Profile {
		return service.withURLs(user).Public()
	}), nil
}

// UpdateProfile changes the actor's gender or adult flag.
func (service *Service) UpdateProfile(context context.Context, actor sec.Actor, patch ProfilePatch) (*User, error) {
	if patch.Gender != nil {
		if err := (&validate.Validator{}).OneOf(FieldGender, string(*patch.Gender), Genders...).Err(); err != nil {
			return nil, err
		}
	}

	if err := service.repo.UpdateProfile(context, actor.UserID, patch); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", actor.UserID))
	return service.Me(context, actor)
}

/*
SetAvatar stores an uploaded avatar and discards the previous one.

Parameters:
  - context: context.Context
  - actor: sec.Actor
  - filename: string (the extension is kept)
  - body: io.Reader

Returns:
  - *User: The updated account
  - error: Storage failures
*/
func (service *Service) SetAvatar(context context.Context, actor sec.Actor, filename string, body io.Reader) (*User, error) {
	ref, err := service.blobs.Save(context, AvatarDir, filename, body)
	if err != nil {
		return nil, err
	}

	previous, err := service.repo.SetAvatar(context, actor.UserID, ref)
	if err != nil {
		service.discard(context, ref)
		return nil, err
	}
	if previous != "" {
		service.discard(context, previous)
	}

	service.logger.Info("user_avatar_updated", slog.String("user_id", actor.UserID))
	return service.Me(context, actor)
}

/*
ChangeEmail replaces the actor's email.

Description: The account becomes unverified and a fresh verification token is
issued for the new address.
*/
func (service *Service) ChangeEmail(context context.Context, actor sec.Actor, email string) (*User, error) {
	email = strings.TrimSpace(email)
	err := (&validate.Validator{}).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		MaxLen(FieldEmail, email, maxEmailLength).
		Err()
	if err != nil {
		return nil, err
	}

	if err := service.repo.UpdateEmail(context, actor.UserID, email); err != nil {
		return nil, err
	}

	user, err := service.Me(context, actor)
	if err != nil {
		return nil, err
	}

	service.logger.Info("email_changed", slog.String("user_id", actor.UserID))
	service.issueVerification(context, user)
	return user, nil
}

/*
ChangePassword replaces the actor's password after checking the current one.

Returns:
  - error: UNAUTHORIZED when the current password is wrong, VALIDATION_ERROR
    when the new one is too short or too long
*/
func (service *Service) ChangePassword(context context.Context, actor sec.Actor, currentPassword, newPassword string) error {
	err := (&validate.Validator{}).
		Required(FieldPassword, newPassword).
		MinLen(FieldPassword, newPassword, minPasswordLength).
		MaxLen(FieldPassword, newPassword, maxPasswordLength).
		Err()
	if err != nil {
		return err
	}

	user, err := service.repo.FindByID(context, actor.UserID)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_hash_password_failed: %w", err))
	}
	if err := service.repo.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return err
	}

	service.logger.Info("password_changed", slog.String("user_id", user.ID))
	return nil
}

// VerifyEmail redeems a verification token.
func (service *Service) VerifyEmail(context context.Context, token string) error {
	if err := (&validate.Validator{}).Required(FieldToken, token).Err(); err != nil {
		return err
	}

	userID, err := service.tokens.Take(context, token)
	if err != nil {
		return err
	}

	if err := service.repo.MarkVerified(context, userID); err != nil {
		return err
	}

	service.logger.Info("email_verified", slog.String("user_id", userID))
	return nil
}

// issueVerification creates and delivers a token. Failures are logged only;
// the account stays unverified and a new email change issues a new token.
func (service *Service) issueVerification(context context.Context, user *User) {
	token, err := sec.GenerateSecureToken(verificationTokenLength)
	if err == nil {
		err = service.tokens.Set(context, token, user.ID, VerificationTokenTTL)
	}
	if err == nil {
		err = service.mailer.SendVerification(context, user, token)
	}
	if err != nil {
		service.logger.Warn("email_verification_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}

func (service *Service) discard(context context.Context, ref string) {
	if err := service.blobs.Delete(context, ref); err != nil {
		service.logger.Warn("user_avatar_cleanup_failed", slog.String("ref", ref), slog.Any("error", err))
	}
}

func (service *Service) withURLs(user *User) *User {
	if user.Avatar != "" {
		user.AvatarURL = service.blobs.URL(user.Avatar)
	}
	return user
}
