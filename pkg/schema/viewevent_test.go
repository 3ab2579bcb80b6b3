package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientViewEventV1(t *testing.T) {
	vMarshal := ClientViewEventV1{
		UserID:    7,
		ProductID: 42,
		Title:     "Bamboo Serving Board",
		Category:  "Home & Kitchen",
		ViewedAt:  "2025-06-01T12:00:00Z",
	}

	var eventSchema avro.Schema

	require.NotPanics(t, func() {
		eventSchema = ViewEventV1Avro()
	})

	data, err := avro.Marshal(eventSchema, vMarshal)
	require.NoError(t, err)

	var vUnmarshal ClientViewEventV1
	err = avro.Unmarshal(eventSchema, data, &vUnmarshal)
	require.NoError(t, err)

	assert.Equal(t, vMarshal, vUnmarshal)
}

func TestAvroEncodeDecodeFns(t *testing.T) {
	eventSchema := ViewEventV1Avro()

	vMarshal := ClientViewEventV1{UserID: 1, ProductID: 2, ViewedAt: "2025-06-01T12:00:00Z"}

	data, err := AvroEncodeFn(eventSchema)(vMarshal)
	require.NoError(t, err)

	var vUnmarshal ClientViewEventV1
	err = AvroDecodeFn(eventSchema)(data, &vUnmarshal)
	require.NoError(t, err)

	assert.Equal(t, vMarshal, vUnmarshal)
}
