package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"liff-member-backend/models"
	"liff-member-backend/utils"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Identity is an authentication account issued by an IdentityProvider.
type Identity struct {
	ID    string
	Email string
}

// CustomerStore is the customers table as exposed by the backend.
type CustomerStore interface {
	// FindByLineID returns ErrCustomerNotFound when no customer has lineID.
	FindByLineID(ctx context.Context, lineID string) (*models.Customer, error)
	InsertCustomer(ctx context.Context, customer *models.Customer) error
}

// IdentityProvider creates and deletes authentication accounts.
type IdentityProvider interface {
	Name() string
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// OrphanRecorder keeps track of identities whose compensating delete failed.
type OrphanRecorder interface {
	RecordOrphan(ctx context.Context, orphan *models.OrphanIdentity) error
}

// Registrar is the registration use case consumed by the HTTP layer.
type Registrar interface {
	Register(ctx context.Context, input RegisterInput) (*RegisteredUser, error)
}

type RegisterInput struct {
	utils.MemberForm
	Password string `json:"password"`
	LineID   string `json:"line_id"`

	// VerifiedLineID is the LINE user id proven by the LIFF token, when
	// token verification is enabled.
	VerifiedLineID string `json:"-"`
}

type RegisteredUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	LineID string `json:"line_id"`
}

type RegistrationService struct {
	customers  CustomerStore
	identities IdentityProvider
	orphans    OrphanRecorder
	validator  utils.FormValidator
	logger     *zap.Logger
	now        func() time.Time
}

type RegistrationOption func(*RegistrationService)

func WithOrphanRecorder(r OrphanRecorder) RegistrationOption {
	return func(s *RegistrationService) { s.orphans = r }
}

func WithFormValidator(v utils.FormValidator) RegistrationOption {
	return func(s *RegistrationService) { s.validator = v }
}

func WithClock(now func() time.Time) RegistrationOption {
	return func(s *RegistrationService) { s.now = now }
}

func NewRegistrationService(customers CustomerStore, identities IdentityProvider, logger *zap.Logger, opts ...RegistrationOption) *RegistrationService {
	s := &RegistrationService{
		customers:  customers,
		identities: identities,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an identity and its customer row. If the row cannot be
// inserted the identity is deleted again; each backend call is attempted once.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisteredUser, error) {
	logger := s.logger.With(zap.String("line_id", in.LineID))
	flow := newRegistrationFlow(logger)

	if in.LineID == "" {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindMissingIdentifier, Message: MessageMissingLineID}
	}
	if err := s.validator.Validate(in.MemberForm); err != nil {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindValidationFailed, Message: err.Error(), Err: err}
	}
	birthday, err := models.ParseDate(in.Birthday)
	if err != nil {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindValidationFailed, Message: MessageInvalidBirthday, Err: err}
	}
	if in.VerifiedLineID != "" && in.VerifiedLineID != in.LineID {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindTokenRejected, Message: utils.MessageTokenRejected}
	}

	flow.fire(ctx, triggerCheckDuplicate)
	existing, err := s.customers.FindByLineID(ctx, in.LineID)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		flow.fire(ctx, triggerFail)
		logger.Error("customer lookup failed", zap.Error(err))
		return nil, newFailure(KindLookupFailed, err)
	}
	if err == nil && existing != nil {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindDuplicateIdentifier, Message: MessageAlreadyRegistered}
	}

	flow.fire(ctx, triggerCreateIdentity)
	identity, err := s.identities.CreateIdentity(ctx, in.Email, in.Password)
	if err != nil {
		flow.fire(ctx, triggerFail)
		logger.Error("identity creation failed", zap.String("provider", s.identities.Name()), zap.Error(err))
		return nil, newFailure(KindIdentityCreationFailed, err)
	}
	if identity == nil || identity.ID == "" {
		flow.fire(ctx, triggerFail)
		return nil, &RegistrationError{Kind: KindIdentityCreationFailed, Message: MessageIdentityNotIssued}
	}
	email := identity.Email
	if email == "" {
		email = in.Email
	}

	// The identity exists now; the insert and any rollback must run even if
	// the client goes away.
	ctx = context.WithoutCancel(ctx)
	logger = logger.With(zap.String("identity_id", identity.ID))

	flow.fire(ctx, triggerInsertProfile)
	now := s.now().UTC()
	customer := &models.Customer{
		ID:               identity.ID,
		Name:             in.Name,
		Nickname:         in.Nickname,
		Email:            in.Email,
		Phone:            in.Phone,
		Gender:           models.Gender(in.Gender),
		Birthday:         birthday,
		City:             in.City,
		District:         in.District,
		LineID:           in.LineID,
		MembershipLevel:  models.MembershipBasic,
		Points:           0,
		TotalSpent:       0,
		LastPurchaseDate: nil,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.customers.InsertCustomer(ctx, customer); err != nil {
		flow.fire(ctx, triggerRollBack)
		s.compensate(ctx, logger, identity, in, err)
		flow.fire(ctx, triggerFail)
		return nil, newFailure(KindProfileInsertFailed, err)
	}

	flow.fire(ctx, triggerSucceed)
	logger.Info("customer registered")

	return &RegisteredUser{ID: identity.ID, Email: email, LineID: in.LineID}, nil
}

// compensate deletes identity once. A failed delete is logged, recorded and
// never surfaced to the caller.
func (s *RegistrationService) compensate(ctx context.Context, logger *zap.Logger, identity *Identity, in RegisterInput, insertErr error) {
	deleteErr := s.identities.DeleteIdentity(ctx, identity.ID)
	switch {
	case deleteErr == nil:
		logger.Warn("customer insert failed, identity deleted", zap.Error(insertErr))
		return
	case errors.Is(deleteErr, ErrIdentityNotFound):
		logger.Warn("customer insert failed, identity already gone", zap.Error(insertErr))
		return
	}

	combined := multierror.Append(
		fmt.Errorf("insert customer: %w", insertErr),
		fmt.Errorf("delete identity: %w", deleteErr),
	)
	logger.Error("compensation failed, identity orphaned", zap.Error(combined))

	if s.orphans == nil {
		return
	}
	orphan := &models.OrphanIdentity{
		IdentityID: identity.ID,
		Provider:   s.identities.Name(),
		Email:      in.Email,
		LineID:     in.LineID,
		Reason:     combined.Error(),
		Attempts:   1,
		LastError:  deleteErr.Error(),
	}
	if err := s.orphans.RecordOrphan(ctx, orphan); err != nil {
		logger.Error("failed to record orphaned identity", zap.Error(err))
	}
}
