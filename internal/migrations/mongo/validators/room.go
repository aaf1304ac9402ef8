package validators

import "go.mongodb.org/mongo-driver/bson"

var numberTypes = []string{"int", "long", "double", "decimal"}

var BookingItemSchema = bson.M{
	"bsonType":             "object",
	"required":             []string{"booking_id", "guest_name", "check_in", "check_out"},
	"additionalProperties": true,
	"properties": bson.M{
		"booking_id":       bson.M{"bsonType": "string", "minLength": 1, "maxLength": 128},
		"guest_name":       bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
		"guest_email":      bson.M{"bsonType": "string"},
		"guest_phone":      bson.M{"bsonType": "string"},
		"check_in":         bson.M{"bsonType": "string"},
		"check_out":        bson.M{"bsonType": "string"},
		"number_of_guests": bson.M{"bsonType": numberTypes, "minimum": 1},
		"total_price":      bson.M{"bsonType": numberTypes, "minimum": 0},
		"status":           bson.M{"bsonType": "string"},
		"notes":            bson.M{"bsonType": "string"},
		"created_at":       bson.M{"bsonType": "date"},
	},
}

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"room_id", "name", "price", "capacity"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "objectId"},
			"room_id":      bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"name":         bson.M{"bsonType": "string", "minLength": 1, "maxLength": 200},
			"price":        bson.M{"bsonType": numberTypes, "minimum": 0},
			"capacity":     bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"description":  bson.M{"bsonType": "string"},
			"amenities":    bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"image_url":    bson.M{"bsonType": "string"},
			"status":       bson.M{"bsonType": "string"},
			"booked_until": bson.M{"bsonType": "string"},
			"bookings":     bson.M{"bsonType": "array", "items": BookingItemSchema},
			"created_at":   bson.M{"bsonType": "date"},
			"updated_at":   bson.M{"bsonType": "date"},
		},
	},
}
