package validators

import "go.mongodb.org/mongo-driver/bson"

var PaymentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reservation_id", "transaction_id", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "objectId"},
			"reservation_id": bson.M{"bsonType": "string", "minLength": 24, "maxLength": 24},
			"transaction_id": bson.M{"bsonType": "string", "minLength": 3, "maxLength": 255},
			"amount":         bson.M{"bsonType": "long", "minimum": 1},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}
