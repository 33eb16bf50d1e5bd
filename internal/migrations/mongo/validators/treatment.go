package validators

import "go.mongodb.org/mongo-driver/bson"

var TreatmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "base_price", "slots"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"base_price": bson.M{"bsonType": "long", "minimum": 1},
			"slots": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 96,
				"items":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 50},
			},
		},
	},
}
