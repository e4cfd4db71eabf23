package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. An empty fromEmail
// yields a disabled service that skips all sends, so the app works
// without SES credentials.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendInvitationEmail sends a parent the activation link for their account
func (s *EmailService) SendInvitationEmail(ctx context.Context, toEmail, toName, code string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): invitation to %s", toEmail)
		return nil
	}

	activateLink := fmt.Sprintf("%s/activate?code=%s", s.appBaseURL, code)

	subject := "Your Camper+ Account Invitation"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2e7d32; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #2e7d32; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Welcome to Camper+</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>Camp staff have created a parent record for you. Activate your account to view the camp schedule and manage your campers' enrollments.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Activate Account</a>
			</p>
			<p>Or copy and paste this link into your browser:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p><strong>This invitation expires in 7 days.</strong></p>
		</div>
		<div class="footer">
			<p>This is an automated email from Camper+. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, activateLink, activateLink)

	textBody := fmt.Sprintf(`Hi %s,

Camp staff have created a parent record for you. Activate your account to
view the camp schedule and manage your campers' enrollments.

Activate your account:
%s

This invitation expires in 7 days.

---
This is an automated email from Camper+. Please do not reply.
`, toName, activateLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendEnrollmentReceivedEmail confirms that a camper registration was
// received and is awaiting staff approval
func (s *EmailService) SendEnrollmentReceivedEmail(ctx context.Context, toEmail, toName, camperName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): enrollment notice to %s", toEmail)
		return nil
	}

	subject := "Camper+ Registration Received"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2e7d32; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Registration Received</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>We received your registration for <strong>%s</strong>. Camp staff will review it and confirm the enrollment.</p>
			<p>You can check the status anytime from your enrollments page:</p>
			<p><a href="%s/parent/enrollments">%s/parent/enrollments</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email from Camper+. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, toName, camperName, s.appBaseURL, s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

We received your registration for %s. Camp staff will review it and
confirm the enrollment.

Check the status anytime: %s/parent/enrollments

---
This is an automated email from Camper+. Please do not reply.
`, toName, camperName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
