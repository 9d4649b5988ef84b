package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/richxcame/devcert-dashboard/internal/developers"
	fb "github.com/richxcame/devcert-dashboard/pkg/firebase"
	"google.golang.org/api/iterator"
)

const collectionName = "users"

// Repository handles Firestore operations for dashboard users
type Repository struct {
	client *firestore.Client
}

// NewRepository creates a new users repository
func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(collectionName).Doc(uid)
}

// Get retrieves a user by uid
func (r *Repository) Get(ctx context.Context, uid string) (*User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		if fb.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return decode(snap)
}

// Create writes a new user document at users/{uid}
func (r *Repository) Create(ctx context.Context, user *User) error {
	if _, err := r.doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// List returns every user ordered by email
func (r *Repository) List(ctx context.Context) ([]User, error) {
	iter := r.client.Collection(collectionName).OrderBy("email", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	users := []User{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		user, err := decode(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// RecordLogin stamps lastLogin and stores role
func (r *Repository) RecordLogin(ctx context.Context, uid, role string, at time.Time) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"role":      role,
		"lastLogin": at,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// UpdateRole changes the role of an existing user
func (r *Repository) UpdateRole(ctx context.Context, uid, role string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{{Path: "role", Value: role}})
	if err != nil {
		if fb.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

func decode(snap *firestore.DocumentSnapshot) (*User, error) {
	return userFromData(snap.Ref.ID, snap.Data()), nil
}

// userFromData reads a users document. The web client stores createdAt and
// lastLogin as ISO strings; unreadable timestamps are left zero.
func userFromData(id string, data map[string]interface{}) *User {
	user := &User{ID: id}
	user.Email, _ = data["email"].(string)
	user.Role, _ = data["role"].(string)
	user.CreatedAt = userTime(data["createdAt"])
	user.LastLogin = userTime(data["lastLogin"])
	return user
}

func userTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := developers.ParseTimestamp(t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
