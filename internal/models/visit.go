package models

import "time"

// Visit is one captured snapshot of a request's identifying metadata.
// AccessTime doubles as the record identity in every store.
type Visit struct {
	Host          string    `bson:"host" json:"host"`
	SessionID     string    `bson:"session_id" json:"sessionID"`
	CallerIP      string    `bson:"caller_ip" json:"callerIP"`
	OriginatingIP *string   `bson:"originating_ip" json:"originatingIP"`
	AccessTime    time.Time `bson:"_id" json:"accessTime"`
}
