package event

import (
	"context"
	"fmt"

	"github.com/runconnect/runconnect/internal/domain"
	pkgkafka "github.com/runconnect/runconnect/pkg/kafka"
)

// Kafka topic constants for platform domain events.
const (
	TopicUserRegistered   = "runconnect.user.registered"
	TopicUserVerified     = "runconnect.user.verified"
	TopicEventCreated     = "runconnect.event.created"
	TopicRunnerRegistered = "runconnect.registration.created"
	TopicRunnerCancelled  = "runconnect.registration.cancelled"
)

// Aggregate type constants.
const (
	AggregateTypeUser         = "user"
	AggregateTypeEvent        = "event"
	AggregateTypeRegistration = "registration"
)

// Source identifier for events originating from this service.
const Source = "runconnect-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserVerifiedData is the payload for a user.verified event.
type UserVerifiedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// EventCreatedData is the payload for an event.created event.
type EventCreatedData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// RegistrationData is the payload for registration lifecycle events.
type RegistrationData struct {
	ID     string `json:"id"`
	RunID  string `json:"run_id"`
	UserID string `json:"user_id"`
}

// Producer publishes platform domain events to Kafka. Publishing is
// best-effort: callers log failures and continue.
type Producer struct {
	kafka *pkgkafka.Producer
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer) *Producer {
	return &Producer{kafka: kafka}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
	return p.publish(ctx, TopicUserRegistered, user.ID, AggregateTypeUser, data)
}

// PublishUserVerified publishes a user.verified event.
func (p *Producer) PublishUserVerified(ctx context.Context, user *domain.User) error {
	data := UserVerifiedData{ID: user.ID, Email: user.Email}
	return p.publish(ctx, TopicUserVerified, user.ID, AggregateTypeUser, data)
}

// PublishEventCreated publishes an event.created event.
func (p *Producer) PublishEventCreated(ctx context.Context, ev *domain.RunEvent) error {
	data := EventCreatedData{
		ID:       ev.ID,
		Title:    ev.Title,
		HostID:   ev.HostID,
		HostName: ev.HostName,
		Date:     ev.Date,
		Time:     ev.Time,
	}
	return p.publish(ctx, TopicEventCreated, ev.ID, AggregateTypeEvent, data)
}

// PublishRegistrationCreated publishes a registration.created event.
func (p *Producer) PublishRegistrationCreated(ctx context.Context, reg *domain.RunRegistration) error {
	data := RegistrationData{ID: reg.ID, RunID: reg.RunID, UserID: reg.UserID}
	return p.publish(ctx, TopicRunnerRegistered, reg.ID, AggregateTypeRegistration, data)
}

// PublishRegistrationCancelled publishes a registration.cancelled event.
func (p *Producer) PublishRegistrationCancelled(ctx context.Context, reg *domain.RunRegistration) error {
	data := RegistrationData{ID: reg.ID, RunID: reg.RunID, UserID: reg.UserID}
	return p.publish(ctx, TopicRunnerCancelled, reg.ID, AggregateTypeRegistration, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	ev, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
