package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"liff-member-backend/config"
	"liff-member-backend/models"

	"github.com/go-resty/resty/v2"
)

const (
	customersPath  = "/rest/v1/customers"
	signupPath     = "/auth/v1/signup"
	adminUsersPath = "/auth/v1/admin/users/{id}"

	// postgrestNoRows is returned by PostgREST when a single-object request matches nothing.
	postgrestNoRows = "PGRST116"

	singleObjectMediaType = "application/vnd.pgrst.object+json"
)

// SupabaseClient talks to a Supabase project with the service role key. It
// serves both as CustomerStore (PostgREST) and IdentityProvider (GoTrue).
type SupabaseClient struct {
	rest *resty.Client
}

func NewSupabaseClient(cfg config.SupabaseConfig) *SupabaseClient {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetAuthToken(cfg.ServiceRoleKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &SupabaseClient{rest: rest}
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`

	status int
}

func (e *postgrestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("supabase request failed with status %d", e.status)
}

type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`

	status int
}

func (e *gotrueError) Error() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("supabase auth request failed with status %d", e.status)
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GoTrue answers signup with the user itself when confirmation is required,
// and with a session wrapping the user when it is not.
type gotrueSignupResponse struct {
	gotrueUser
	User *gotrueUser `json:"user"`
}

func (s *SupabaseClient) Name() string {
	return config.IdentitySupabase
}

func (s *SupabaseClient) FindByLineID(ctx context.Context, lineID string) (*models.Customer, error) {
	var customer models.Customer
	apiErr := &postgrestError{}

	resp, err := s.rest.R().
		SetContext(ctx).
		SetHeader("Accept", singleObjectMediaType).
		SetQueryParams(map[string]string{
			"select":  "id,line_id",
			"line_id": "eq." + lineID,
		}).
		SetResult(&customer).
		SetError(apiErr).
		Get(customersPath)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if resp.IsError() {
		if apiErr.Code == postgrestNoRows {
			return nil, ErrCustomerNotFound
		}
		apiErr.status = resp.StatusCode()
		return nil, apiErr
	}
	return &customer, nil
}

func (s *SupabaseClient) InsertCustomer(ctx context.Context, customer *models.Customer) error {
	apiErr := &postgrestError{}

	resp, err := s.rest.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]*models.Customer{customer}).
		SetError(apiErr).
		Post(customersPath)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	if resp.IsError() {
		apiErr.status = resp.StatusCode()
		return apiErr
	}
	return nil
}

func (s *SupabaseClient) CreateIdentity(ctx context.Context, email, password string) (*Identity, error) {
	var out gotrueSignupResponse
	apiErr := &gotrueError{}

	resp, err := s.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		SetError(apiErr).
		Post(signupPath)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if resp.IsError() {
		apiErr.status = resp.StatusCode()
		return nil, apiErr
	}

	user := out.gotrueUser
	if out.User != nil {
		user = *out.User
	}
	if user.ID == "" {
		return nil, nil
	}
	return &Identity{ID: user.ID, Email: user.Email}, nil
}

func (s *SupabaseClient) DeleteIdentity(ctx context.Context, id string) error {
	apiErr := &gotrueError{}

	resp, err := s.rest.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetError(apiErr).
		Delete(adminUsersPath)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrIdentityNotFound
	}
	if resp.IsError() {
		apiErr.status = resp.StatusCode()
		return apiErr
	}
	return nil
}
