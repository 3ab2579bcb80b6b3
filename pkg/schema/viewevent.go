package schema

import "github.com/hamba/avro/v2"

const ViewEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "ecostore",
	"name": "client_view_event",
	"fields" : [
		{"name": "user_id", "type": "long"},
		{"name": "product_id", "type": "long"},
		{"name": "title", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "viewed_at", "type": "string"}
	]
}`

// A ClientViewEventV1 is one product-page view, keyed on the wire by the
// product id. ViewedAt carries RFC 3339 UTC.
type ClientViewEventV1 struct {
	UserID    int64  `avro:"user_id"`
	ProductID int64  `avro:"product_id"`
	Title     string `avro:"title"`
	Category  string `avro:"category"`
	ViewedAt  string `avro:"viewed_at"`
}

func ViewEventV1Avro() avro.Schema {
	return avro.MustParse(ViewEventSchemaTextV1)
}
