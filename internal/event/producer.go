package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hirelane/jobportal/internal/domain"
	pkgkafka "github.com/hirelane/jobportal/pkg/kafka"
)

// Kafka topic constants for account lifecycle events.
const (
	TopicUserRegistered    = "jobportal.user.registered"
	TopicUserVerified      = "jobportal.user.verified"
	TopicUserPasswordReset = "jobportal.user.password_reset"
)

// Aggregate type constant.
const AggregateTypeUser = "user"

// Source identifier for events originating from the portal backend.
const SourceJobPortal = "jobportal"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UserVerifiedData is the payload for a user.verified event.
type UserVerifiedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserPasswordResetData is the payload for a user.password_reset event.
type UserPasswordResetData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Producer publishes account lifecycle events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceJobPortal, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserVerified publishes a user.verified event once the email address
// has been confirmed.
func (p *Producer) PublishUserVerified(ctx context.Context, user *domain.User) error {
	data := UserVerifiedData{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserVerified, user.ID, AggregateTypeUser, SourceJobPortal, data)
	if err != nil {
		return fmt.Errorf("create user.verified event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserVerified, event); err != nil {
		return fmt.Errorf("publish user.verified event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.verified event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishUserPasswordReset publishes a user.password_reset event.
func (p *Producer) PublishUserPasswordReset(ctx context.Context, userID, email string) error {
	data := UserPasswordResetData{
		UserID: userID,
		Email:  email,
	}

	event, err := pkgkafka.NewEvent(TopicUserPasswordReset, userID, AggregateTypeUser, SourceJobPortal, data)
	if err != nil {
		return fmt.Errorf("create user.password_reset event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserPasswordReset, event); err != nil {
		return fmt.Errorf("publish user.password_reset event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.password_reset event",
		slog.String("user_id", userID),
		slog.String("email", email),
	)

	return nil
}
