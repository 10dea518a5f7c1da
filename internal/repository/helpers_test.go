package repository_test

import (
	"github.com/oggyb/muzz-match/internal/testutil"
)

var (
	setupTestDB    = testutil.NewDB
	createUser     = testutil.CreateUser
	withoutPicture = testutil.WithoutPicture
	withFirstName  = testutil.WithFirstName
	ids            = testutil.IDs
)
