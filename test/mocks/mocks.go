// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/repositories.go -destination=mock_repositories.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/services.go -destination=mock_services.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/database.go -destination=mock_database.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=mock_cache.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/queue.go -destination=mock_queue.go -package=mocks
