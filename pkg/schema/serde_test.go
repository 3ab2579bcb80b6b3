package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/greencart/ecostore/pkg/schema"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeViewEventV1(t *testing.T) {
	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeViewEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeViewEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "client-events-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.ViewEventSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeViewEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		event1 := schema.ClientViewEventV1{
			UserID:    7,
			ProductID: 42,
			Title:     "Bamboo Serving Board",
			Category:  "Home & Kitchen",
			ViewedAt:  "2025-06-01T12:00:00Z",
		}

		encodedData, err := serde.Encode(event1)
		require.NoError(t, err)

		var event2 schema.ClientViewEventV1
		err = serde.Decode(encodedData, &event2)
		require.NoError(t, err)

		assert.Equal(t, event1, event2)
	})
}
