package models

import "github.com/google/uuid"

// assignID fills a zero primary key before insert. Postgres also defaults ids via
// gen_random_uuid(), but assigning them here keeps sqlite-backed tests working.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
