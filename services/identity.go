package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pitchpilot/apperrors"
	appConfig "pitchpilot/config"
	"pitchpilot/db"
	"pitchpilot/models"
	"pitchpilot/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/google/uuid"
)

// Identity is the authenticated principal behind a session.
type Identity struct {
	UserID string
	Email  string
}

// Session is what a successful signup or login yields.
type Session struct {
	Identity
	AccessToken string
}

// IdentityProvider abstracts the external identity service. Failures
// that belong on the auth form come back as *apperrors.AuthError.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Validate(ctx context.Context, token string) (*Identity, error)
}

// NewIdentityProvider picks Cognito when a user pool is configured and
// falls back to the local mode otherwise.
func NewIdentityProvider(cfg *appConfig.Config) (IdentityProvider, error) {
	if cfg.Cognito.AppClientId != "" {
		return NewCognitoProvider(cfg)
	}
	log.Println("Cognito not configured, using local auth mode")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("local auth mode requires a jwt secret")
	}
	return &LocalProvider{Secret: cfg.JWT.Secret}, nil
}

// CognitoProvider implements IdentityProvider against AWS Cognito.
type CognitoProvider struct {
	client          *cognitoidentityprovider.Client
	appClientId     string
	appClientSecret string
}

func NewCognitoProvider(cfg *appConfig.Config) (*CognitoProvider, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithRegion(cfg.Cognito.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &CognitoProvider{
		client:          cognitoidentityprovider.NewFromConfig(awsCfg),
		appClientId:     cfg.Cognito.AppClientId,
		appClientSecret: cfg.Cognito.AppClientSecret,
	}, nil
}

func (p *CognitoProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	secretHash := utils.GenerateSecretHash(email, p.appClientId, p.appClientSecret)

	signUpInput := cognitoidentityprovider.SignUpInput{
		ClientId:   aws.String(p.appClientId),
		Password:   aws.String(password),
		SecretHash: aws.String(secretHash),
		Username:   aws.String(email),
		UserAttributes: []types.AttributeType{
			{
				Name:  aws.String("email"),
				Value: aws.String(email),
			},
			{
				Name:  aws.String("nickname"),
				Value: aws.String(utils.ExtractNameFromEmail(email)),
			},
		},
	}

	if _, err := p.client.SignUp(ctx, &signUpInput); err != nil {
		log.Println("Error during sign-up:", err)
		return nil, classifyCognitoError(err)
	}

	// Signing up signs the user in, matching the identity provider
	// behavior the views rely on.
	return p.Login(ctx, email, password)
}

func (p *CognitoProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	secretHash := utils.GenerateSecretHash(email, p.appClientId, p.appClientSecret)

	authInput := cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(p.appClientId),
		AuthParameters: map[string]string{
			"USERNAME":    email,
			"PASSWORD":    password,
			"SECRET_HASH": secretHash,
		},
	}

	authOutput, err := p.client.InitiateAuth(ctx, &authInput)
	if err != nil {
		log.Println("Error during sign-in:", err)
		return nil, classifyCognitoError(err)
	}
	if authOutput.AuthenticationResult == nil || authOutput.AuthenticationResult.AccessToken == nil {
		return nil, apperrors.NewAuthError("sign-in challenge not supported")
	}

	token := *authOutput.AuthenticationResult.AccessToken
	identity, err := p.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Session{Identity: *identity, AccessToken: token}, nil
}

func (p *CognitoProvider) Validate(ctx context.Context, token string) (*Identity, error) {
	out, err := p.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(token),
	})
	if err != nil {
		return nil, apperrors.NewAuthError("invalid or expired token")
	}

	identity := Identity{UserID: aws.ToString(out.Username)}
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "email":
			identity.Email = aws.ToString(attr.Value)
		case "sub":
			identity.UserID = aws.ToString(attr.Value)
		}
	}
	return &identity, nil
}

func classifyCognitoError(err error) error {
	var usernameExists *types.UsernameExistsException
	if errors.As(err, &usernameExists) {
		return apperrors.NewAuthError("email already registered")
	}
	var invalidPassword *types.InvalidPasswordException
	if errors.As(err, &invalidPassword) {
		return apperrors.NewAuthError("password does not meet requirements")
	}
	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) {
		return apperrors.NewAuthError("invalid email or password")
	}
	var notConfirmed *types.UserNotConfirmedException
	if errors.As(err, &notConfirmed) {
		return apperrors.NewAuthError("email not verified yet")
	}
	return fmt.Errorf("identity provider error: %w", err)
}

// LocalProvider implements IdentityProvider over the users collection
// with bcrypt hashes and HS256 session tokens. Development mode only.
type LocalProvider struct {
	Secret string
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if _, err := db.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.NewAuthError("email already registered")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		UserID:       uuid.NewString(),
		Email:        email,
		DisplayName:  utils.ExtractNameFromEmail(email),
		PasswordHash: hash,
	}
	if err := db.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	return p.issueSession(user.UserID, email)
}

func (p *LocalProvider) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewAuthError("invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewAuthError("invalid email or password")
	}
	return p.issueSession(user.UserID, email)
}

func (p *LocalProvider) Validate(ctx context.Context, token string) (*Identity, error) {
	claims, err := utils.ParseJWTToken(p.Secret, token)
	if err != nil {
		return nil, apperrors.NewAuthError("invalid or expired token")
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (p *LocalProvider) issueSession(userID, email string) (*Session, error) {
	token, err := utils.GenerateJWTToken(p.Secret, userID, email)
	if err != nil {
		return nil, err
	}
	return &Session{
		Identity:    Identity{UserID: userID, Email: email},
		AccessToken: token,
	}, nil
}