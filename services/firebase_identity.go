package services

import (
	"context"
	"fmt"

	"liff-member-backend/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type firebaseAuthClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseIdentityProvider issues identities through Firebase Authentication.
type FirebaseIdentityProvider struct {
	client firebaseAuthClient
}

func NewFirebaseIdentityProvider(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseIdentityProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &FirebaseIdentityProvider{client: client}, nil
}

func (p *FirebaseIdentityProvider) Name() string {
	return config.IdentityFirebase
}

func (p *FirebaseIdentityProvider) CreateIdentity(ctx context.Context, email, password string) (*Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(false)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, err
	}
	if record == nil || record.UserInfo == nil {
		return nil, nil
	}
	return &Identity{ID: record.UID, Email: record.Email}, nil
}

func (p *FirebaseIdentityProvider) DeleteIdentity(ctx context.Context, id string) error {
	err := p.client.DeleteUser(ctx, id)
	if auth.IsUserNotFound(err) {
		return ErrIdentityNotFound
	}
	return err
}
