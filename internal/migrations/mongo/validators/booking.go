package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"treatment",
			"date",
			"slot",
			"patient_id",
			"patient_name",
			"paid",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"treatment": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 32,
			},

			"slot": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"patient_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 254,
			},

			"patient_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"paid": bson.M{
				"bsonType": "bool",
			},

			"transaction_id": bson.M{
				"bsonType":  "string",
				"maxLength": 255,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"paid_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
