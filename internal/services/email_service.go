package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
)

// EmailService defines the interface for sending notification emails
type EmailService interface {
	SendDecisionEmail(ctx context.Context, email, name, decision string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendDecisionEmail tells a registrant whether their account was approved.
func (s *AWSSESEmailService) SendDecisionEmail(ctx context.Context, email, name, decision string) error {
	subject := "Your registration was rejected"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour registration with the Criminal Records Management System was rejected. "+
			"Please contact the administrator if you believe this is a mistake.\n", name)

	if decision == models.UserStatusApproved {
		subject = "Your registration was approved"
		body = fmt.Sprintf(
			"Hello %s,\n\nYour registration with the Criminal Records Management System was approved. "+
				"You can now log in with your national ID.\n", name)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}

	s.logger.Info("decision email sent", slog.String("decision", decision))
	return nil
}

// NoopEmailService is used when email delivery is disabled.
type NoopEmailService struct {
	logger *slog.Logger
}

func NewNoopEmailService(logger *slog.Logger) *NoopEmailService {
	return &NoopEmailService{logger: logger}
}

func (s *NoopEmailService) SendDecisionEmail(ctx context.Context, email, name, decision string) error {
	s.logger.Debug("email delivery disabled, skipping decision email", slog.String("decision", decision))
	return nil
}
