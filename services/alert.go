package services

import (
	"context"
	"fmt"

	"liff-member-backend/config"
	"liff-member-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Alerter notifies an operator about an orphaned identity.
type Alerter interface {
	AlertOrphan(ctx context.Context, orphan *models.OrphanIdentity) error
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSAlerter sends operator alerts as SMS through Twilio.
type SMSAlerter struct {
	api    messageCreator
	from   string
	to     string
	logger *zap.Logger
}

func NewSMSAlerter(cfg config.TwilioConfig, logger *zap.Logger) *SMSAlerter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSAlerter{api: client.Api, from: cfg.FromNumber, to: cfg.AlertTo, logger: logger}
}

func (a *SMSAlerter) AlertOrphan(ctx context.Context, orphan *models.OrphanIdentity) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(a.to)
	params.SetFrom(a.from)
	params.SetBody(orphanAlertBody(orphan))

	resp, err := a.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send orphan alert: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		a.logger.Info("orphan alert sent", zap.String("sid", *resp.Sid), zap.String("identity_id", orphan.IdentityID))
	}
	return nil
}

func orphanAlertBody(orphan *models.OrphanIdentity) string {
	return fmt.Sprintf("[member-backend] orphaned %s identity %s (line_id=%s, email=%s): %s",
		orphan.Provider, orphan.IdentityID, orphan.LineID, orphan.Email, orphan.LastError)
}
