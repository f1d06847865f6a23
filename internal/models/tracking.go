package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TrackingEvent is one status/location update in a shipment's history.
// Events sharing a TrackingID are ordered by Timestamp.
type TrackingEvent struct {
	ID         bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	TrackingID string        `json:"trackingId" bson:"trackingId"`
	ParcelID   bson.ObjectID `json:"parcelId" bson:"parcelId"`
	UserEmail  string        `json:"userEmail" bson:"userEmail"`
	Status     string        `json:"status" bson:"status"`
	Location   string        `json:"location" bson:"location"`
	Message    string        `json:"message,omitempty" bson:"message,omitempty"`
	Timestamp  time.Time     `json:"timestamp" bson:"timestamp"`
}

// TrackingEventInput is the caller-supplied part of a TrackingEvent.
type TrackingEventInput struct {
	TrackingID string `json:"trackingId"`
	ParcelID   string `json:"parcelId"`
	UserEmail  string `json:"userEmail"`
	Status     string `json:"status"`
	Location   string `json:"location"`
	Message    string `json:"message,omitempty"`

	// Timestamp is honoured only for carrier-ingested events.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
