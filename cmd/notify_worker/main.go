package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-rental/config"
	"github.com/oksasatya/go-library-rental/internal/worker"
	"github.com/oksasatya/go-library-rental/pkg/helpers"
	"github.com/oksasatya/go-library-rental/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	dryRun := !cfg.MailSendEnabled
	if dryRun {
		logger.Warn("MAIL_SEND_ENABLED=false; emails are rendered and logged, not sent")
	} else if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue, 16)
	if err != nil {
		log.Fatalf("rabbitmq consumer: %v", err)
	}
	defer consumer.Close()

	var sender worker.Sender
	if !dryRun {
		sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}
	delivery := worker.NewEmailDelivery(sender, cfg.Location(), logger, dryRun)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range consumer.Deliveries {
			outcome := delivery.Handle(ctx, msg.Type, msg.Body)
			switch outcome {
			case worker.Ack:
				_ = msg.Ack(false)
			case worker.Requeue:
				_ = msg.Nack(false, true)
			default:
				_ = msg.Nack(false, false)
			}
			logger.WithFields(logrus.Fields{"message_id": msg.MessageId, "outcome": outcome.String()}).Debug("delivery handled")
		}
	}()

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("notify worker listening")
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case <-done:
		logger.Warn("delivery channel closed")
	}
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
