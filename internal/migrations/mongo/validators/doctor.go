package validators

import "go.mongodb.org/mongo-driver/bson"

var DoctorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "specialty"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":       bson.M{"bsonType": "string", "minLength": 3, "maxLength": 254},
			"name":      bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"specialty": bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"image_url": bson.M{"bsonType": "string", "maxLength": 2048},
		},
	},
}
