package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// Identity is what an upstream identity token proves about the caller.
type Identity struct {
	UID           string
	Email         string
	Name          string
	EmailVerified bool
}

// IdentityVerifier checks an identity token minted by the sign-in provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// NewVerifier builds the verifier named by provider. "none" and "" yield nil,
// which turns verification off.
func NewVerifier(ctx context.Context, provider, firebaseCredentials, googleClientID string) (IdentityVerifier, error) {
	switch strings.ToLower(provider) {
	case "", "none":
		return nil, nil
	case "firebase":
		v, err := NewFirebaseVerifier(ctx, firebaseCredentials)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "google":
		return NewGoogleVerifier(googleClientID), nil
	default:
		return nil, fmt.Errorf("unknown identity provider: %s", provider)
	}
}

type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from a service account file.
func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid firebase token: %w", err)
	}

	id := &Identity{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.Name = name
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	return id, nil
}

type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates a Google ID token against the configured OAuth client id.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	id := &Identity{UID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		id.Name = name
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	return id, nil
}
