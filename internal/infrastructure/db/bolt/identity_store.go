package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// IdentityStore is the local-mode account and profile backend. Profiles are
// stored under an insertion-sequence key; id and email index buckets point
// back at that key. Accounts are verified immediately, so the verification
// flow never triggers in this mode.
type IdentityStore struct {
	store *Store
}

// NewIdentityStore returns the bbolt-backed identity store.
func NewIdentityStore(store *Store) *IdentityStore {
	return &IdentityStore{store: store}
}

func (s *IdentityStore) CreateAccount(_ context.Context, user *domain.UserProfile, password string) (*domain.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created := *user
	created.ID = uuid.NewString()
	created.PasswordHash = string(hash)
	created.Blocked = false
	created.EmailVerified = true

	err = s.store.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(bucketEmailIndex)
		if emails.Get([]byte(created.Email)) != nil {
			return domain.ErrEmailTaken
		}

		profiles := tx.Bucket(bucketProfiles)
		seq, err := profiles.NextSequence()
		if err != nil {
			return err
		}
		key := itob(seq)

		payload, err := encodeProfile(&created)
		if err != nil {
			return err
		}
		if err := profiles.Put(key, payload); err != nil {
			return err
		}
		if err := tx.Bucket(bucketIDIndex).Put([]byte(created.ID), key); err != nil {
			return err
		}
		return emails.Put([]byte(created.Email), key)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *IdentityStore) Authenticate(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	user, err := s.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *IdentityStore) SaveProfile(_ context.Context, user *domain.UserProfile) error {
	return s.store.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIDIndex).Get([]byte(user.ID))
		if key == nil {
			return domain.ErrUserNotFound
		}

		profiles := tx.Bucket(bucketProfiles)
		if user.PasswordHash == "" {
			var existing *domain.UserProfile
			if err := decodeProfile(profiles.Get(key), &existing); err != nil {
				return err
			}
			user.PasswordHash = existing.PasswordHash
		}

		payload, err := encodeProfile(user)
		if err != nil {
			return err
		}
		return profiles.Put(key, payload)
	})
}

func (s *IdentityStore) GetProfile(_ context.Context, id string) (*domain.UserProfile, error) {
	var user *domain.UserProfile
	err := s.store.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIDIndex).Get([]byte(id))
		if key == nil {
			return domain.ErrUserNotFound
		}
		return decodeProfile(tx.Bucket(bucketProfiles).Get(key), &user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityStore) GetProfileByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	var user *domain.UserProfile
	err := s.store.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketEmailIndex).Get([]byte(email))
		if key == nil {
			return domain.ErrUserNotFound
		}
		return decodeProfile(tx.Bucket(bucketProfiles).Get(key), &user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityStore) ListProfiles(_ context.Context) ([]domain.UserProfile, error) {
	var users []domain.UserProfile
	err := s.store.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketProfiles).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var u *domain.UserProfile
			if err := decodeProfile(v, &u); err != nil {
				return err
			}
			users = append(users, *u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *IdentityStore) DeleteProfile(_ context.Context, id string) error {
	return s.store.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDIndex)
		key := ids.Get([]byte(id))
		if key == nil {
			return domain.ErrUserNotFound
		}

		profiles := tx.Bucket(bucketProfiles)
		var user *domain.UserProfile
		if err := decodeProfile(profiles.Get(key), &user); err != nil {
			return err
		}

		if err := profiles.Delete(key); err != nil {
			return err
		}
		if err := ids.Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketEmailIndex).Delete([]byte(user.Email))
	})
}

// SendVerification is a no-op: local accounts are verified at creation.
func (s *IdentityStore) SendVerification(_ context.Context, _ string) error {
	return nil
}

// profileRecord is the on-disk profile shape. UserProfile hides its hash
// from JSON for HTTP responses, so the record carries it in a field of its
// own; the outer field wins when marshalling.
type profileRecord struct {
	domain.UserProfile
	PasswordHash string `json:"password_hash,omitempty"`
}

func encodeProfile(u *domain.UserProfile) ([]byte, error) {
	return json.Marshal(profileRecord{UserProfile: *u, PasswordHash: u.PasswordHash})
}

func decodeProfile(payload []byte, out **domain.UserProfile) error {
	var rec profileRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	u := rec.UserProfile
	u.PasswordHash = rec.PasswordHash
	*out = &u
	return nil
}
