// Package mocks provides shared test doubles for the store, auth and service
// interfaces.
//
// Repository and service mocks are built on testify/mock; set expectations with
// On and check them with AssertExpectations. The auth mocks use function fields
// so a test can swap in behavior without registering expectations.
//
// The store mocks return themselves from WithTx, and MockTransactor runs the
// callback with a nil *sql.Tx, so transactional service code can be exercised
// without a database:
//
//	users := new(mocks.MockUserStore)
//	users.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, store.ErrUserNotFound)
//	svc := service.NewAuthService(&mocks.MockTransactor{}, users, hasher, hasher, jwt, nil)
package mocks
