//go:build integration

package integration

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/infrastructure/postgres"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testLogger() zerolog.Logger { return zerolog.Nop() }

func postgresUp(url string) error { return postgres.RunMigrations(url, testLogger()) }

func postgresDown(url string) error { return postgres.RunMigrationsDown(url, testLogger()) }
