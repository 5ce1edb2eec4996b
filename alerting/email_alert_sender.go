package alerting

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/PeerDB-io/destkit/internal"
)

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailAlertSender struct {
	AlertSender
	client               sesClient
	sourceEmail          string
	configurationSetName string
	emailAddresses       []string
}

type EmailAlertSenderConfig struct {
	SourceEmail          string   `json:"source_email"`
	ConfigurationSetName string   `json:"configuration_set_name"`
	EmailAddresses       []string `json:"email_addresses"`
}

func (e *EmailAlertSender) senderName() string {
	return "email"
}

func (e *EmailAlertSender) sendAlert(ctx context.Context, msg *TraceMessage) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: e.emailAddresses,
		},
		Message: &types.Message{
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(msg.Message),
					Charset: aws.String("utf-8"),
				},
			},
			Subject: &types.Content{
				Data:    aws.String(msg.Title()),
				Charset: aws.String("utf-8"),
			},
		},
		Source: aws.String(e.sourceEmail),
		Tags: []types.MessageTag{
			{Name: aws.String("DeploymentUUID"), Value: aws.String(internal.DestkitDeploymentUID())},
			{Name: aws.String("ErrorClass"), Value: aws.String(msg.ErrorClass)},
		},
	}
	if e.configurationSetName != "" {
		input.ConfigurationSetName = aws.String(e.configurationSetName)
	}
	_, err := e.client.SendEmail(ctx, input)
	return err
}

func NewEmailAlertSenderWithNewClient(ctx context.Context, region string, config *EmailAlertSenderConfig) (*EmailAlertSender, error) {
	client, err := newSesClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewEmailAlertSender(client, config), nil
}

func NewEmailAlertSender(client *ses.Client, config *EmailAlertSenderConfig) *EmailAlertSender {
	return newEmailAlertSender(client, config)
}

func newEmailAlertSender(client sesClient, config *EmailAlertSenderConfig) *EmailAlertSender {
	return &EmailAlertSender{
		client:               client,
		sourceEmail:          config.SourceEmail,
		configurationSetName: config.ConfigurationSetName,
		emailAddresses:       config.EmailAddresses,
	}
}

func newSesClient(ctx context.Context, region string) (*ses.Client, error) {
	sdkConfig, err := config.LoadDefaultConfig(ctx, func(options *config.LoadOptions) error {
		if region != "" {
			options.Region = region
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ses.NewFromConfig(sdkConfig), nil
}
