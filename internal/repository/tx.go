package repository

import "gorm.io/gorm/clause"

// forUpdate is the row-lock clause used wherever a read-modify-write sequence
// must serialize against concurrent transactions.
func forUpdate() clause.Locking { return clause.Locking{Strength: "UPDATE"} }
