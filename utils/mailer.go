package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

// InitSES is optional: with no ADMIN_EMAIL configured the notifier is a
// silent no-op so local runs need no AWS credentials.
func InitSES() {
	if os.Getenv("ADMIN_EMAIL") == "" {
		return
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Printf("AWS config load failed, email notifications disabled: %v", err)
		return
	}
	sesClient = ses.NewFromConfig(cfg)
}

func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return nil
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// NotifyAccessRequest tells the admin mailbox that someone asked for bot
// access.
func NotifyAccessRequest(displayName, userID string) error {
	subject := "New bot access request"
	body := fmt.Sprintf("%s (id %s) has requested access.\n\nReview with /pending in the admin chat.", displayName, userID)
	return sendEmail(os.Getenv("ADMIN_EMAIL"), subject, body)
}
