package models

import "time"

// Warning representa una advertencia individual
type Warning struct {
	ID        string    `bson:"id" json:"id"`
	Reason    string    `bson:"reason" json:"reason"`
	Moderator string    `bson:"moderator" json:"moderator"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// WarnsDocument representa el documento completo en la colección "warns":
// guildId, userId, warns[]
type WarnsDocument struct {
	GuildID string    `bson:"guildId" json:"guildId"`
	UserID  string    `bson:"userId" json:"userId"`
	Warns   []Warning `bson:"warns" json:"warns"`
}
