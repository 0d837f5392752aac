package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"liff-member-backend/models"
	"liff-member-backend/services"
	"liff-member-backend/services/mocks"
	"liff-member-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC)

func exampleInput() services.RegisterInput {
	return services.RegisterInput{
		MemberForm: utils.MemberForm{
			Name:     "王小明",
			Gender:   "male",
			Phone:    "0912345678",
			Email:    "a@b.com",
			Birthday: "1990-01-01",
			City:     "台北市",
			District: "大安區",
		},
		Password: "x",
		LineID:   "U123",
	}
}

type fields struct {
	customers  *mocks.CustomerStore
	identities *mocks.IdentityProvider
	orphans    *mocks.OrphanRecorder
}

func newService(t *testing.T) (*services.RegistrationService, fields) {
	f := fields{
		customers:  mocks.NewCustomerStore(t),
		identities: mocks.NewIdentityProvider(t),
		orphans:    mocks.NewOrphanRecorder(t),
	}
	f.identities.On("Name").Return("supabase").Maybe()

	svc := services.NewRegistrationService(
		f.customers,
		f.identities,
		zap.NewNop(),
		services.WithOrphanRecorder(f.orphans),
		services.WithClock(func() time.Time { return fixedNow }),
	)
	return svc, f
}

func TestRegistrationService_Register_Success(t *testing.T) {
	svc, f := newService(t)

	f.customers.On("FindByLineID", mock.Anything, "U123").
		Return(nil, services.ErrCustomerNotFound).
		Once()
	f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
		Return(&services.Identity{ID: "uid-1", Email: "a@b.com"}, nil).
		Once()
	f.customers.On("InsertCustomer", mock.Anything, mock.MatchedBy(func(c *models.Customer) bool {
		return c.ID == "uid-1" &&
			c.LineID == "U123" &&
			c.Name == "王小明" &&
			c.Gender == models.GenderMale &&
			c.Birthday.String() == "1990-01-01" &&
			c.MembershipLevel == models.MembershipBasic &&
			c.Points == 0 &&
			c.TotalSpent == 0 &&
			c.LastPurchaseDate == nil &&
			c.CreatedAt.Equal(fixedNow) &&
			c.UpdatedAt.Equal(fixedNow)
	})).
		Return(nil).
		Once()

	user, err := svc.Register(context.Background(), exampleInput())

	require.NoError(t, err)
	assert.Equal(t, &services.RegisteredUser{ID: "uid-1", Email: "a@b.com", LineID: "U123"}, user)
}

func TestRegistrationService_Register_Failures(t *testing.T) {
	lookupErr := errors.New("connection refused")
	authErr := errors.New("User already registered")
	insertErr := errors.New(`duplicate key value violates unique constraint "customers_line_id_key"`)

	tests := []struct {
		name     string
		input    func() services.RegisterInput
		on       func(f fields)
		assert   func(t *testing.T, f fields)
		wantKind services.ErrorKind
		wantMsg  string
	}{
		{
			name: "missing line id",
			input: func() services.RegisterInput {
				in := exampleInput()
				in.LineID = ""
				return in
			},
			wantKind: services.KindMissingIdentifier,
			wantMsg:  services.MessageMissingLineID,
		},
		{
			name: "name too long is rejected before any backend call",
			input: func() services.RegisterInput {
				in := exampleInput()
				in.Name = "王小明大中華"
				return in
			},
			wantKind: services.KindValidationFailed,
			wantMsg:  "姓名為必填且長度不能超過5個字",
		},
		{
			name: "bad phone is rejected before any backend call",
			input: func() services.RegisterInput {
				in := exampleInput()
				in.Phone = "12345"
				return in
			},
			wantKind: services.KindValidationFailed,
			wantMsg:  "手機號碼格式錯誤",
		},
		{
			name: "unparseable birthday",
			input: func() services.RegisterInput {
				in := exampleInput()
				in.Birthday = "01/01/1990"
				return in
			},
			wantKind: services.KindValidationFailed,
			wantMsg:  services.MessageInvalidBirthday,
		},
		{
			name: "verified line id differs from submitted one",
			input: func() services.RegisterInput {
				in := exampleInput()
				in.VerifiedLineID = "U999"
				return in
			},
			wantKind: services.KindTokenRejected,
			wantMsg:  utils.MessageTokenRejected,
		},
		{
			name:  "duplicate line id creates no identity",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(&models.Customer{ID: "existing", LineID: "U123"}, nil).
					Once()
			},
			assert: func(t *testing.T, f fields) {
				f.identities.AssertNotCalled(t, "CreateIdentity", mock.Anything, mock.Anything, mock.Anything)
			},
			wantKind: services.KindDuplicateIdentifier,
			wantMsg:  services.MessageAlreadyRegistered,
		},
		{
			name:  "lookup failure",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, lookupErr).
					Once()
			},
			wantKind: services.KindLookupFailed,
			wantMsg:  "connection refused",
		},
		{
			name:  "identity creation failure",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, services.ErrCustomerNotFound).
					Once()
				f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
					Return(nil, authErr).
					Once()
			},
			assert: func(t *testing.T, f fields) {
				f.customers.AssertNotCalled(t, "InsertCustomer", mock.Anything, mock.Anything)
			},
			wantKind: services.KindIdentityCreationFailed,
			wantMsg:  "User already registered",
		},
		{
			name:  "provider returns no identity",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, services.ErrCustomerNotFound).
					Once()
				f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
					Return(nil, nil).
					Once()
			},
			wantKind: services.KindIdentityCreationFailed,
			wantMsg:  services.MessageIdentityNotIssued,
		},
		{
			name:  "insert failure deletes the identity",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, services.ErrCustomerNotFound).
					Once()
				f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
					Return(&services.Identity{ID: "uid-1", Email: "a@b.com"}, nil).
					Once()
				f.customers.On("InsertCustomer", mock.Anything, mock.Anything).
					Return(insertErr).
					Once()
				f.identities.On("DeleteIdentity", mock.Anything, "uid-1").
					Return(nil).
					Once()
			},
			assert: func(t *testing.T, f fields) {
				f.orphans.AssertNotCalled(t, "RecordOrphan", mock.Anything, mock.Anything)
			},
			wantKind: services.KindProfileInsertFailed,
			wantMsg:  insertErr.Error(),
		},
		{
			name:  "identity already gone counts as rolled back",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, services.ErrCustomerNotFound).
					Once()
				f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
					Return(&services.Identity{ID: "uid-1", Email: "a@b.com"}, nil).
					Once()
				f.customers.On("InsertCustomer", mock.Anything, mock.Anything).
					Return(insertErr).
					Once()
				f.identities.On("DeleteIdentity", mock.Anything, "uid-1").
					Return(services.ErrIdentityNotFound).
					Once()
			},
			assert: func(t *testing.T, f fields) {
				f.orphans.AssertNotCalled(t, "RecordOrphan", mock.Anything, mock.Anything)
			},
			wantKind: services.KindProfileInsertFailed,
			wantMsg:  insertErr.Error(),
		},
		{
			name:  "failed rollback is recorded but the insert error is returned",
			input: exampleInput,
			on: func(f fields) {
				f.customers.On("FindByLineID", mock.Anything, "U123").
					Return(nil, services.ErrCustomerNotFound).
					Once()
				f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
					Return(&services.Identity{ID: "uid-1", Email: "a@b.com"}, nil).
					Once()
				f.customers.On("InsertCustomer", mock.Anything, mock.Anything).
					Return(insertErr).
					Once()
				f.identities.On("DeleteIdentity", mock.Anything, "uid-1").
					Return(errors.New("admin api unavailable")).
					Once()
				f.orphans.On("RecordOrphan", mock.Anything, mock.MatchedBy(func(o *models.OrphanIdentity) bool {
					return o.IdentityID == "uid-1" &&
						o.Provider == "supabase" &&
						o.LineID == "U123" &&
						o.Attempts == 1 &&
						o.LastError == "admin api unavailable"
				})).
					Return(nil).
					Once()
			},
			wantKind: services.KindProfileInsertFailed,
			wantMsg:  insertErr.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newService(t)
			if tt.on != nil {
				tt.on(f)
			}

			user, err := svc.Register(context.Background(), tt.input())

			assert.Nil(t, user)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, services.KindOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			if tt.assert != nil {
				tt.assert(t, f)
			}
		})
	}
}

func TestRegistrationService_Register_ContinuesAfterCancel(t *testing.T) {
	svc, f := newService(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.customers.On("FindByLineID", mock.Anything, "U123").
		Return(nil, services.ErrCustomerNotFound).
		Once()
	f.identities.On("CreateIdentity", mock.Anything, "a@b.com", "x").
		Run(func(mock.Arguments) { cancel() }).
		Return(&services.Identity{ID: "uid-1"}, nil).
		Once()
	f.customers.On("InsertCustomer", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).
		Return(nil).
		Once()

	user, err := svc.Register(ctx, exampleInput())

	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
}
