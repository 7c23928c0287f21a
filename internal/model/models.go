package model

// All lists every persisted model, in dependency order, for schema migration.
var All = []any{
	&User{},
	&Club{},
	&Event{},
	&Membership{},
	&EventRegistration{},
	&Payment{},
}
