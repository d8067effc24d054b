package integration_test

const (
	// User related constants
	TestUserFirstName = "John"
	TestUserLastName  = "Doe"
	TestUserEmail     = "test@example.com"
	TestUserPassword  = "Test123!@#"

	// Movie related constants, backed by the bundled catalog
	TestMovieID    = "m1"
	TestMovieTitle = "Interstellar Odyssey"
)
