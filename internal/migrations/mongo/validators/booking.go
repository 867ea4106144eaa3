package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"location",
			"date",
			"start_time",
			"duration_min",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"student_name": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"student_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"student_phone": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"location": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"duration_min": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  480,
			},

			"lesson_type": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"note": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"APPROVED",
					"DENIED",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
