// Package casdoor implements the remote deployment mode: accounts,
// credentials, and email verification live in a hosted Casdoor organization,
// while the extended profile fields are documents keyed by user id in Mongo.
package casdoor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

const profileCollection = "profiles"

// Config holds the Casdoor connection settings.
type Config struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
	// MailSender is the display sender of verification emails.
	MailSender string
}

// IdentityStore is the Casdoor-plus-Mongo account backend.
type IdentityStore struct {
	client   *casdoorsdk.Client
	profiles *mongo.Collection
	cfg      Config
}

// NewIdentityStore builds the remote identity store from a Casdoor client
// configuration and the database holding the profile documents.
func NewIdentityStore(cfg Config, db *mongo.Database) *IdentityStore {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &IdentityStore{
		client:   client,
		profiles: db.Collection(profileCollection),
		cfg:      cfg,
	}
}

// profileDoc is the Mongo document carrying the fields Casdoor does not own.
type profileDoc struct {
	ID        string    `bson:"_id"`
	Role      string    `bson:"role"`
	Bio       string    `bson:"bio,omitempty"`
	Interests []string  `bson:"interests,omitempty"`
	Avatar    string    `bson:"avatar,omitempty"`
	Blocked   bool      `bson:"blocked"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *IdentityStore) CreateAccount(ctx context.Context, user *domain.UserProfile, password string) (*domain.UserProfile, error) {
	existing, err := s.client.GetUserByEmail(user.Email)
	if err != nil {
		return nil, remoteErr("lookup account", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	account := &casdoorsdk.User{
		Owner:             s.cfg.Organization,
		Name:              accountName(user.Email, id),
		Id:                id,
		DisplayName:       user.Name,
		Email:             user.Email,
		Password:          password,
		Avatar:            user.Avatar,
		SignupApplication: s.cfg.Application,
		CreatedTime:       now.Format(time.RFC3339),
	}
	if _, err := s.client.AddUser(account); err != nil {
		return nil, remoteErr("create account", err)
	}

	doc := profileDoc{
		ID:        id,
		Role:      string(user.Role),
		Bio:       user.Bio,
		Interests: user.Interests,
		Avatar:    user.Avatar,
		Blocked:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.profiles.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert profile doc: %w", err)
	}

	created := *user
	created.ID = id
	created.Blocked = false
	created.EmailVerified = false
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (s *IdentityStore) Authenticate(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	account, err := s.client.GetUserByEmail(email)
	if err != nil {
		return nil, remoteErr("lookup account", err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.client.CheckUserPassword(&casdoorsdk.User{
		Owner:    s.cfg.Organization,
		Name:     account.Name,
		Password: password,
	})
	if err != nil {
		return nil, remoteErr("check password", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.EmailVerified {
		return nil, domain.ErrVerificationRequired
	}

	return s.merge(ctx, account)
}

func (s *IdentityStore) SaveProfile(ctx context.Context, user *domain.UserProfile) error {
	account, err := s.client.GetUserByUserId(user.ID)
	if err != nil {
		return remoteErr("lookup account", err)
	}
	if account == nil {
		return domain.ErrUserNotFound
	}

	if account.DisplayName != user.Name || account.Avatar != user.Avatar {
		account.DisplayName = user.Name
		account.Avatar = user.Avatar
		if _, err := s.client.UpdateUser(account); err != nil {
			return remoteErr("update account", err)
		}
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"role":       string(user.Role),
		"bio":        user.Bio,
		"interests":  user.Interests,
		"avatar":     user.Avatar,
		"blocked":    user.Blocked,
		"updated_at": now,
	}, "$setOnInsert": bson.M{"created_at": now}}
	_, err = s.profiles.UpdateByID(ctx, user.ID, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert profile doc: %w", err)
	}
	return nil
}

func (s *IdentityStore) GetProfile(ctx context.Context, id string) (*domain.UserProfile, error) {
	account, err := s.client.GetUserByUserId(id)
	if err != nil {
		return nil, remoteErr("lookup account", err)
	}
	if account == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.merge(ctx, account)
}

func (s *IdentityStore) GetProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	account, err := s.client.GetUserByEmail(email)
	if err != nil {
		return nil, remoteErr("lookup account", err)
	}
	if account == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.merge(ctx, account)
}

func (s *IdentityStore) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	accounts, err := s.client.GetUsers()
	if err != nil {
		return nil, remoteErr("list accounts", err)
	}

	cur, err := s.profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find profile docs: %w", err)
	}
	defer cur.Close(ctx)

	docs := make(map[string]profileDoc)
	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode profile doc: %w", err)
		}
		docs[doc.ID] = doc
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	var users []domain.UserProfile
	for _, account := range accounts {
		doc, ok := docs[account.Id]
		if !ok {
			// Accounts created outside the app carry no profile document.
			continue
		}
		users = append(users, assemble(account, doc))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *IdentityStore) DeleteProfile(ctx context.Context, id string) error {
	account, err := s.client.GetUserByUserId(id)
	if err != nil {
		return remoteErr("lookup account", err)
	}
	if account == nil {
		return domain.ErrUserNotFound
	}
	if _, err := s.client.DeleteUser(account); err != nil {
		return remoteErr("delete account", err)
	}
	if _, err := s.profiles.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete profile doc: %w", err)
	}
	return nil
}

func (s *IdentityStore) SendVerification(_ context.Context, email string) error {
	title := "Confirm your Fetch account"
	content := "Welcome to Fetch! Please confirm this email address to activate your account."
	if err := s.client.SendEmail(title, content, s.cfg.MailSender, email); err != nil {
		return remoteErr("send verification email", err)
	}
	return nil
}

func (s *IdentityStore) merge(ctx context.Context, account *casdoorsdk.User) (*domain.UserProfile, error) {
	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"_id": account.Id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile doc: %w", err)
	}
	user := assemble(account, doc)
	return &user, nil
}

func assemble(account *casdoorsdk.User, doc profileDoc) domain.UserProfile {
	avatar := doc.Avatar
	if avatar == "" {
		avatar = account.Avatar
	}
	return domain.UserProfile{
		ID:            account.Id,
		Email:         account.Email,
		Role:          domain.Role(doc.Role),
		Name:          account.DisplayName,
		Bio:           doc.Bio,
		Interests:     doc.Interests,
		Avatar:        avatar,
		Blocked:       doc.Blocked,
		EmailVerified: account.EmailVerified,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// accountName derives a unique Casdoor username from the email local part.
func accountName(email, id string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	return fmt.Sprintf("%s-%s", strings.ToLower(local), id[:8])
}

func remoteErr(op string, err error) error {
	return fmt.Errorf("%w: casdoor %s: %v", domain.ErrRemoteService, op, err)
}
