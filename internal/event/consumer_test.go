package event

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgkafka "github.com/ataullahmesbah/sooqra-one-sub002/pkg/kafka"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/domain"
)

type mockCatalogWriter struct {
	mock.Mock
}

func (m *mockCatalogWriter) UpsertProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockCatalogWriter) RemoveProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func productEvent(t *testing.T, eventType string, payload any) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.NewEvent(eventType, "p1", "product", "catalog-service", payload)
	require.NoError(t, err)
	return event
}

func TestConsumer_ProductCreated(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	product := domain.Product{ID: "p1", Title: "Panjabi Collection 2025"}
	writer.On("UpsertProduct", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.ID == "p1" && p.Title == "Panjabi Collection 2025"
	})).Return(nil)

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductCreated, product))
	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestConsumer_ProductUpdated(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	product := domain.Product{ID: "p1", Title: "Panjabi Collection 2026"}
	writer.On("UpsertProduct", mock.Anything, mock.AnythingOfType("domain.Product")).Return(nil)

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductUpdated, product))
	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestConsumer_ProductDeleted(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	writer.On("RemoveProduct", mock.Anything, "p1").Return(nil)

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductDeleted, map[string]string{"id": "p1"}))
	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestConsumer_UpsertMissingID(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductCreated, domain.Product{Title: "No ID"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no product id")
	writer.AssertNotCalled(t, "UpsertProduct", mock.Anything, mock.Anything)
}

func TestConsumer_DeletedMissingID(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductDeleted, map[string]string{}))
	require.Error(t, err)
	writer.AssertNotCalled(t, "RemoveProduct", mock.Anything, mock.Anything)
}

func TestConsumer_UnknownEventTypeAcknowledged(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	err := consumer.Handle(context.Background(), productEvent(t, "sooqra.product.archived", map[string]string{"id": "p1"}))
	assert.NoError(t, err)
	writer.AssertNotCalled(t, "UpsertProduct", mock.Anything, mock.Anything)
	writer.AssertNotCalled(t, "RemoveProduct", mock.Anything, mock.Anything)
}

func TestConsumer_WriterFailurePropagates(t *testing.T) {
	writer := new(mockCatalogWriter)
	consumer := NewConsumer(writer, newTestLogger())

	writer.On("UpsertProduct", mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(errors.New("store down"))

	err := consumer.Handle(context.Background(), productEvent(t, TopicProductCreated, domain.Product{ID: "p1", Title: "Panjabi"}))
	require.Error(t, err)
}

func TestTopics(t *testing.T) {
	assert.Equal(t, []string{
		"sooqra.product.created",
		"sooqra.product.updated",
		"sooqra.product.deleted",
	}, Topics())
}
